package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"gazeink/internal/modules/capture/domain"
	capturedto "gazeink/internal/modules/capture/dto"
	capturein "gazeink/internal/modules/capture/port/in"
	captureout "gazeink/internal/modules/capture/port/out"
	"gazeink/internal/modules/capture/service"
	apperrors "gazeink/internal/platform/errors"
)

type Interactor struct {
	store  *service.CaptureStore
	sinks  []captureout.Sink
	logger hclog.Logger
}

func NewInteractor(store *service.CaptureStore, sinks []captureout.Sink, logger hclog.Logger) capturein.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{store: store, sinks: sinks, logger: logger}
}

func (i *Interactor) StartTrial() capturedto.TrialOutput {
	number := i.store.StartTrial()
	i.logger.Debug("trial started", "trial", number)
	return capturedto.TrialOutput{TrialNumber: number, Open: true}
}

func (i *Interactor) EndTrial() (capturedto.TrialOutput, error) {
	number := i.store.CurrentTrial()
	if err := i.store.EndTrial(); err != nil {
		return capturedto.TrialOutput{}, err
	}
	if number > 0 {
		i.logger.Debug("trial ended", "trial", number)
	}
	return capturedto.TrialOutput{TrialNumber: number}, nil
}

func (i *Interactor) CurrentTrial() capturedto.TrialOutput {
	number := i.store.CurrentTrial()
	return capturedto.TrialOutput{TrialNumber: number, Open: number > 0}
}

func (i *Interactor) StartStroke(input capturedto.StrokeInput) error {
	return i.store.StartStroke(domain.Tool(input.Tool), input.Color, input.Thickness)
}

func (i *Interactor) AddStrokePoint(input capturedto.PointInput) error {
	return i.store.AddStrokePoint(input.X, input.Y, input.Pressure)
}

func (i *Interactor) EndStroke() error {
	return i.store.EndStroke()
}

func (i *Interactor) RecordAction(action string) error {
	return i.store.RecordAction(domain.ActionType(action))
}

func (i *Interactor) AddGazePoint(x, y float64) error {
	return i.store.AddGazePoint(x, y)
}

func (i *Interactor) TrialOpen() bool {
	return i.store.TrialOpen()
}

func (i *Interactor) SetGeometry(canvasW, canvasH, dpr float64) {
	i.store.SetGeometry(canvasW, canvasH, dpr)
}

func (i *Interactor) Summary() capturedto.SummaryOutput {
	return toSummaryOutput(i.store.Summary())
}

func (i *Interactor) Snapshot() domain.Session {
	return i.store.Snapshot()
}

// Export hands one snapshot to every selected sink. A failing sink does not
// stop the others; all failures are returned together.
func (i *Interactor) Export(ctx context.Context, input capturedto.ExportInput) (capturedto.ExportOutput, error) {
	session := i.store.Snapshot()
	if len(session.Trials) == 0 {
		return capturedto.ExportOutput{}, apperrors.ErrNothingToSave
	}
	sinks, err := i.selectSinks(input.Sinks)
	if err != nil {
		return capturedto.ExportOutput{}, err
	}

	out := capturedto.ExportOutput{ParticipantID: session.ParticipantID, Trials: len(session.Trials)}
	var errs []error
	for _, sink := range sinks {
		location, err := sink.Write(ctx, session)
		if err != nil {
			i.logger.Error("export failed", "sink", sink.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		i.logger.Info("session exported", "sink", sink.Name(), "location", location, "trials", len(session.Trials))
		out.Written = append(out.Written, capturedto.WrittenOutput{Sink: sink.Name(), Location: location})
	}
	return out, errors.Join(errs...)
}

func (i *Interactor) selectSinks(names []string) ([]captureout.Sink, error) {
	if len(names) == 0 {
		return i.sinks, nil
	}
	byName := make(map[string]captureout.Sink, len(i.sinks))
	for _, sink := range i.sinks {
		byName[sink.Name()] = sink
	}
	selected := make([]captureout.Sink, 0, len(names))
	for _, name := range names {
		sink, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: sink %q", apperrors.ErrNotFound, name)
		}
		selected = append(selected, sink)
	}
	return selected, nil
}

func toSummaryOutput(summary domain.SessionSummary) capturedto.SummaryOutput {
	out := capturedto.SummaryOutput{
		ParticipantID: summary.ParticipantID,
		Trials:        make([]capturedto.TrialSummaryOutput, 0, len(summary.Trials)),
		Totals:        toTrialSummary(summary.Totals()),
	}
	for _, t := range summary.Trials {
		out.Trials = append(out.Trials, toTrialSummary(t))
	}
	return out
}

func toTrialSummary(t domain.TrialSummary) capturedto.TrialSummaryOutput {
	return capturedto.TrialSummaryOutput{
		TrialNumber: t.TrialNumber,
		DurationMS:  t.DurationMS,
		Strokes:     t.Strokes,
		Points:      t.Points,
		GazeSamples: t.GazeSamples,
		Actions:     t.Actions,
		Open:        t.Open,
	}
}
