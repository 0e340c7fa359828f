package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	jsonout "gazeink/internal/modules/capture/adapter/out"
	"gazeink/internal/modules/capture/domain"
	capturedto "gazeink/internal/modules/capture/dto"
	capturein "gazeink/internal/modules/capture/port/in"
	captureout "gazeink/internal/modules/capture/port/out"
	"gazeink/internal/modules/capture/service"
	"gazeink/internal/modules/capture/usecase"
	apperrors "gazeink/internal/platform/errors"
)

type tickTimeline struct{ now float64 }

func (t *tickTimeline) Now() float64 {
	t.now += 5
	return t.now
}

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

var wall = fixedClock{at: time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)}

type recordingSink struct {
	name  string
	err   error
	calls []domain.Session
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Write(_ context.Context, session domain.Session) (string, error) {
	r.calls = append(r.calls, session)
	if r.err != nil {
		return "", r.err
	}
	return r.name + "://ok", nil
}

func newUsecase(sinks ...captureout.Sink) capturein.Usecase {
	store := service.NewCaptureStore(&tickTimeline{}, wall, service.Metadata{ParticipantID: "P-1", ScreenWidth: 100, ScreenHeight: 100}, service.Options{})
	return usecase.NewInteractor(store, sinks, nil)
}

func drawOneStroke(t *testing.T, uc capturein.Usecase) {
	t.Helper()
	if err := uc.StartStroke(capturedto.StrokeInput{Tool: "pen", Color: "#000", Thickness: 2}); err != nil {
		t.Fatalf("start stroke: %v", err)
	}
	p := 0.7
	for _, in := range []capturedto.PointInput{{X: 1, Y: 1}, {X: 2, Y: 2, Pressure: &p}} {
		if err := uc.AddStrokePoint(in); err != nil {
			t.Fatalf("add point: %v", err)
		}
	}
	if err := uc.EndStroke(); err != nil {
		t.Fatalf("end stroke: %v", err)
	}
}

func TestTrialFlowAndSummary(t *testing.T) {
	t.Parallel()
	uc := newUsecase()
	if cur := uc.CurrentTrial(); cur.Open || cur.TrialNumber != 0 {
		t.Fatalf("no trial expected, got %+v", cur)
	}
	started := uc.StartTrial()
	if started.TrialNumber != 1 || !started.Open || !uc.TrialOpen() {
		t.Fatalf("unexpected start %+v", started)
	}
	drawOneStroke(t, uc)
	if err := uc.RecordAction("clear"); err != nil {
		t.Fatalf("record action: %v", err)
	}
	if err := uc.AddGazePoint(500, 50); err != nil {
		t.Fatalf("gaze: %v", err)
	}
	ended, err := uc.EndTrial()
	if err != nil {
		t.Fatalf("end trial: %v", err)
	}
	if ended.TrialNumber != 1 || ended.Open {
		t.Fatalf("unexpected end %+v", ended)
	}

	summary := uc.Summary()
	if summary.ParticipantID != "P-1" || len(summary.Trials) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	trial := summary.Trials[0]
	if trial.Strokes != 1 || trial.Points != 2 || trial.Actions != 1 || trial.GazeSamples != 1 || trial.Open || trial.DurationMS <= 0 {
		t.Fatalf("unexpected trial summary %+v", trial)
	}
	if summary.Totals.Points != 2 {
		t.Fatalf("unexpected totals %+v", summary.Totals)
	}
	snap := uc.Snapshot()
	if g := snap.Trials[0].GazeData[0]; g.X != 100 || g.Y != 50 {
		t.Fatalf("gaze not clamped to screen: %+v", g)
	}
}

func TestExportWritesEverySink(t *testing.T) {
	t.Parallel()
	a, b := &recordingSink{name: "a"}, &recordingSink{name: "b"}
	uc := newUsecase(a, b)
	uc.StartTrial()
	drawOneStroke(t, uc)

	out, err := uc.Export(context.Background(), capturedto.ExportInput{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.ParticipantID != "P-1" || out.Trials != 1 || len(out.Written) != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Written[0].Location != "a://ok" || out.Written[1].Sink != "b" {
		t.Fatalf("unexpected written %+v", out.Written)
	}
	if len(a.calls) != 1 || len(a.calls[0].Trials[0].Strokes) != 1 {
		t.Fatalf("sink did not receive snapshot: %+v", a.calls)
	}
}

func TestExportSelectsSinksAndJoinsFailures(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk full")
	a, b, c := &recordingSink{name: "a"}, &recordingSink{name: "b", err: boom}, &recordingSink{name: "c"}
	uc := newUsecase(a, b, c)
	uc.StartTrial()

	out, err := uc.Export(context.Background(), capturedto.ExportInput{Sinks: []string{"b", "c"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink failure, got %v", err)
	}
	if len(a.calls) != 0 || len(c.calls) != 1 {
		t.Fatalf("unexpected sink calls a=%d c=%d", len(a.calls), len(c.calls))
	}
	if len(out.Written) != 1 || out.Written[0].Sink != "c" {
		t.Fatalf("successful sinks should still be reported: %+v", out.Written)
	}

	if _, err := uc.Export(context.Background(), capturedto.ExportInput{Sinks: []string{"nope"}}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unknown sink error, got %v", err)
	}
}

func TestExportWithoutTrials(t *testing.T) {
	t.Parallel()
	uc := newUsecase(&recordingSink{name: "a"})
	if _, err := uc.Export(context.Background(), capturedto.ExportInput{}); !errors.Is(err, apperrors.ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
}

func TestArchiveInteractorReadsExports(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files := jsonout.NewJSONFileStore(dir, wall)
	archive, err := jsonout.NewSQLiteArchive(filepath.Join(dir, "archive.db"), wall)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = archive.Close() })

	uc := newUsecase(files)
	uc.StartTrial()
	drawOneStroke(t, uc)
	if _, err := uc.EndTrial(); err != nil {
		t.Fatalf("end trial: %v", err)
	}
	out, err := uc.Export(context.Background(), capturedto.ExportInput{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := out.Written[0].Location

	arch := usecase.NewArchiveInteractor(files, archive)
	summary, err := arch.SummarizeExport(context.Background(), path)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(summary.Trials) != 1 || summary.Trials[0].Points != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	written, err := arch.ArchiveExport(context.Background(), path)
	if err != nil {
		t.Fatalf("archive export: %v", err)
	}
	if written.Sink != "sqlite" || written.Location != "sqlite#1" {
		t.Fatalf("unexpected archive output %+v", written)
	}
	listed, err := arch.ListArchived(context.Background())
	if err != nil || len(listed) != 1 || listed[0].ParticipantID != "P-1" {
		t.Fatalf("unexpected list %+v err=%v", listed, err)
	}
	loaded, err := arch.LoadArchived(context.Background(), listed[0].ID)
	if err != nil {
		t.Fatalf("load archived: %v", err)
	}
	if len(loaded.Trials[0].Strokes[0].Points) != 2 {
		t.Fatalf("unexpected archived session %+v", loaded)
	}

	noArchive := usecase.NewArchiveInteractor(files, nil)
	if _, err := noArchive.ListArchived(context.Background()); err == nil {
		t.Fatalf("expected error without archive")
	}
}

func TestTrialStrokesVisibleAndFull(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files := jsonout.NewJSONFileStore(dir, wall)
	uc := newUsecase(files)
	uc.StartTrial()
	drawOneStroke(t, uc)
	drawOneStroke(t, uc)
	if err := uc.RecordAction("undo"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, err := uc.EndTrial(); err != nil {
		t.Fatalf("end trial: %v", err)
	}
	out, err := uc.Export(context.Background(), capturedto.ExportInput{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	arch := usecase.NewArchiveInteractor(files, nil)
	path := out.Written[0].Location

	full, err := arch.TrialStrokes(context.Background(), capturedto.TrialStrokesInput{Path: path})
	if err != nil {
		t.Fatalf("full strokes: %v", err)
	}
	if full.TrialNumber != 1 || len(full.Strokes) != 2 || full.ParticipantID != "P-1" {
		t.Fatalf("unexpected full output %+v", full)
	}
	if full.Strokes[0].Tool != "pen" || len(full.Strokes[0].Points) != 2 {
		t.Fatalf("unexpected stroke %+v", full.Strokes[0])
	}

	visible, err := arch.TrialStrokes(context.Background(), capturedto.TrialStrokesInput{Path: path, Trial: 1, Visible: true})
	if err != nil {
		t.Fatalf("visible strokes: %v", err)
	}
	if len(visible.Strokes) != 1 {
		t.Fatalf("undo should hide the second stroke, got %d", len(visible.Strokes))
	}

	if _, err := arch.TrialStrokes(context.Background(), capturedto.TrialStrokesInput{Path: path, Trial: 2}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
