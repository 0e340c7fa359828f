package usecase

import (
	"context"
	"errors"
	"fmt"

	"gazeink/internal/modules/capture/domain"
	capturedto "gazeink/internal/modules/capture/dto"
	capturein "gazeink/internal/modules/capture/port/in"
	captureout "gazeink/internal/modules/capture/port/out"
	apperrors "gazeink/internal/platform/errors"
)

var errNoArchive = errors.New("archive is not configured")

// ArchiveInteractor works on exports that already left the live session.
type ArchiveInteractor struct {
	reader  captureout.ExportReader
	archive captureout.ArchiveStore
}

func NewArchiveInteractor(reader captureout.ExportReader, archive captureout.ArchiveStore) capturein.Archive {
	return &ArchiveInteractor{reader: reader, archive: archive}
}

func (a *ArchiveInteractor) LoadExport(ctx context.Context, path string) (domain.Session, error) {
	return a.reader.Read(ctx, path)
}

func (a *ArchiveInteractor) SummarizeExport(ctx context.Context, path string) (capturedto.SummaryOutput, error) {
	session, err := a.reader.Read(ctx, path)
	if err != nil {
		return capturedto.SummaryOutput{}, err
	}
	return toSummaryOutput(domain.Summarize(session, 0)), nil
}

func (a *ArchiveInteractor) ArchiveExport(ctx context.Context, path string) (capturedto.WrittenOutput, error) {
	if a.archive == nil {
		return capturedto.WrittenOutput{}, errNoArchive
	}
	session, err := a.reader.Read(ctx, path)
	if err != nil {
		return capturedto.WrittenOutput{}, err
	}
	location, err := a.archive.Write(ctx, session)
	if err != nil {
		return capturedto.WrittenOutput{}, err
	}
	return capturedto.WrittenOutput{Sink: a.archive.Name(), Location: location}, nil
}

func (a *ArchiveInteractor) ListArchived(ctx context.Context) ([]capturedto.ArchivedOutput, error) {
	if a.archive == nil {
		return nil, errNoArchive
	}
	entries, err := a.archive.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]capturedto.ArchivedOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, capturedto.ArchivedOutput{
			ID:            e.ID,
			ParticipantID: e.ParticipantID,
			StartedAt:     e.StartedAt,
			Trials:        e.Trials,
			ArchivedAt:    e.ArchivedAt,
		})
	}
	return out, nil
}

func (a *ArchiveInteractor) LoadArchived(ctx context.Context, id int64) (domain.Session, error) {
	if a.archive == nil {
		return domain.Session{}, errNoArchive
	}
	return a.archive.Load(ctx, id)
}

func (a *ArchiveInteractor) TrialStrokes(ctx context.Context, input capturedto.TrialStrokesInput) (capturedto.TrialStrokesOutput, error) {
	var (
		session domain.Session
		err     error
	)
	if input.Path != "" {
		session, err = a.LoadExport(ctx, input.Path)
	} else {
		session, err = a.LoadArchived(ctx, input.ArchiveID)
	}
	if err != nil {
		return capturedto.TrialStrokesOutput{}, err
	}
	if len(session.Trials) == 0 {
		return capturedto.TrialStrokesOutput{}, apperrors.ErrNothingToSave
	}
	number := input.Trial
	if number == 0 {
		number = len(session.Trials)
	}
	if number < 1 || number > len(session.Trials) {
		return capturedto.TrialStrokesOutput{}, fmt.Errorf("%w: trial %d of %d", apperrors.ErrNotFound, number, len(session.Trials))
	}
	trial := session.Trials[number-1]
	strokes := trial.Strokes
	if input.Visible {
		strokes = domain.VisibleStrokes(trial)
	}

	out := capturedto.TrialStrokesOutput{
		ParticipantID:    session.ParticipantID,
		TrialNumber:      trial.TrialNumber,
		CanvasWidth:      session.CanvasWidth,
		CanvasHeight:     session.CanvasHeight,
		DevicePixelRatio: session.DevicePixelRatio,
		Strokes:          make([]capturedto.StrokeOutput, 0, len(strokes)),
	}
	for _, s := range strokes {
		points := make([]capturedto.PointOutput, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, capturedto.PointOutput{X: p.X, Y: p.Y})
		}
		out.Strokes = append(out.Strokes, capturedto.StrokeOutput{Tool: string(s.Tool), Color: s.Color, Thickness: s.Thickness, Points: points})
	}
	return out, nil
}
