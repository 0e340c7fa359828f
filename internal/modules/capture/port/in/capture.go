package in

import (
	"context"

	"gazeink/internal/modules/capture/domain"
	"gazeink/internal/modules/capture/dto"
)

// Recorder is the narrow surface the drawing and gaze modules write through.
type Recorder interface {
	StartStroke(input dto.StrokeInput) error
	AddStrokePoint(input dto.PointInput) error
	EndStroke() error
	RecordAction(action string) error
	AddGazePoint(x, y float64) error
	TrialOpen() bool
}

type Usecase interface {
	Recorder
	StartTrial() dto.TrialOutput
	EndTrial() (dto.TrialOutput, error)
	CurrentTrial() dto.TrialOutput
	SetGeometry(canvasW, canvasH, dpr float64)
	Summary() dto.SummaryOutput
	Snapshot() domain.Session
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}

// Archive reads back previously exported sessions.
type Archive interface {
	LoadExport(ctx context.Context, path string) (domain.Session, error)
	SummarizeExport(ctx context.Context, path string) (dto.SummaryOutput, error)
	ArchiveExport(ctx context.Context, path string) (dto.WrittenOutput, error)
	ListArchived(ctx context.Context) ([]dto.ArchivedOutput, error)
	LoadArchived(ctx context.Context, id int64) (domain.Session, error)
	TrialStrokes(ctx context.Context, input dto.TrialStrokesInput) (dto.TrialStrokesOutput, error)
}
