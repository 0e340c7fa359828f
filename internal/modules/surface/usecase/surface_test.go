package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	captureservice "gazeink/internal/modules/capture/service"
	captureusecase "gazeink/internal/modules/capture/usecase"
	surfaceadapter "gazeink/internal/modules/surface/adapter/out"
	"gazeink/internal/modules/surface/domain"
	surfacedto "gazeink/internal/modules/surface/dto"
	"gazeink/internal/modules/surface/service"
	"gazeink/internal/modules/surface/usecase"
	apperrors "gazeink/internal/platform/errors"
)

type tickTimeline struct{ now float64 }

func (t *tickTimeline) Now() float64 {
	t.now += 10
	return t.now
}

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

var wall = fixedClock{at: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)}

func pressure(v float64) *float64 { return &v }

func primary(x, y float64, p *float64) surfacedto.PointerInput {
	return surfacedto.PointerInput{PointerID: 1, Primary: true, X: x, Y: y, Pressure: p}
}

func TestDrawingIsRecordedAndUndoKeepsTheRecord(t *testing.T) {
	t.Parallel()
	store := captureservice.NewCaptureStore(&tickTimeline{}, wall, captureservice.Metadata{ParticipantID: "P-1", ScreenWidth: 800, ScreenHeight: 600}, captureservice.Options{})
	capture := captureusecase.NewInteractor(store, nil, nil)

	surface := service.NewDrawingSurface(surfaceadapter.NewRasterCanvas(nil), surfaceadapter.NewCaptureRecorder(capture), domain.Style{Tool: domain.Pen, Color: "#000000", Thickness: 3})
	uc := usecase.NewInteractor(surface, surfaceadapter.NewLocalFileWriter())
	if err := uc.Resize(200, 100, 2); err != nil {
		t.Fatalf("resize: %v", err)
	}
	uc.Enable()
	capture.StartTrial()

	steps := []func() error{
		func() error { return uc.PointerDown(primary(10, 10, pressure(0.5))) },
		func() error { return uc.PointerMove(primary(20, 20, pressure(0.7))) },
		func() error { return uc.PointerUp(primary(20, 20, nil)) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	trial := capture.Snapshot().Trials[0]
	if len(trial.Strokes) != 1 || trial.Strokes[0].Tool != "pen" || len(trial.Strokes[0].Points) != 2 {
		t.Fatalf("expected one pen stroke with two points, got %+v", trial.Strokes)
	}
	if got := trial.Strokes[0].Points[1].Pressure; got != 0.7 {
		t.Fatalf("expected pressure 0.7, got %v", got)
	}

	if err := uc.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if status := uc.Status(); status.HistoryLen != 0 || status.State != "armed" {
		t.Fatalf("unexpected status after undo: %+v", status)
	}
	if _, err := capture.EndTrial(); err != nil {
		t.Fatalf("end trial: %v", err)
	}
	trial = capture.Snapshot().Trials[0]
	if len(trial.Strokes) != 1 {
		t.Fatalf("undo must not remove recorded strokes, got %d", len(trial.Strokes))
	}
	if len(trial.Actions) != 1 || trial.Actions[0].Type != "undo" {
		t.Fatalf("expected one undo action, got %+v", trial.Actions)
	}
	if trial.EndTime == nil {
		t.Fatalf("trial should be closed")
	}
}

func TestDrawingOutsideTrialIsNotRecorded(t *testing.T) {
	t.Parallel()
	store := captureservice.NewCaptureStore(&tickTimeline{}, wall, captureservice.Metadata{}, captureservice.Options{})
	capture := captureusecase.NewInteractor(store, nil, nil)
	surface := service.NewDrawingSurface(surfaceadapter.NewRasterCanvas(nil), surfaceadapter.NewCaptureRecorder(capture), domain.Style{Tool: domain.Pen, Color: "#000", Thickness: 3})
	uc := usecase.NewInteractor(surface, surfaceadapter.NewLocalFileWriter())
	uc.Enable()
	if err := uc.PointerDown(primary(1, 1, nil)); err != nil {
		t.Fatalf("tolerant store should absorb strokes without a trial: %v", err)
	}
	if err := uc.PointerUp(primary(1, 1, nil)); err != nil {
		t.Fatalf("pointer up: %v", err)
	}
	if len(uc.History()) != 1 {
		t.Fatalf("surface should still draw")
	}
	if len(capture.Snapshot().Trials) != 0 {
		t.Fatalf("nothing should be recorded")
	}
}

func TestStrictStoreSurfacesRecorderErrors(t *testing.T) {
	t.Parallel()
	store := captureservice.NewCaptureStore(&tickTimeline{}, wall, captureservice.Metadata{}, captureservice.Options{Strict: true})
	capture := captureusecase.NewInteractor(store, nil, nil)
	surface := service.NewDrawingSurface(surfaceadapter.NewRasterCanvas(nil), surfaceadapter.NewCaptureRecorder(capture), domain.Style{Tool: domain.Pen, Color: "#000", Thickness: 3})
	uc := usecase.NewInteractor(surface, surfaceadapter.NewLocalFileWriter())
	uc.Enable()
	if err := uc.PointerDown(primary(1, 1, nil)); !errors.Is(err, apperrors.ErrNoOpenTrial) {
		t.Fatalf("expected no open trial, got %v", err)
	}
}

func render(t *testing.T, strokes ...domain.Entry) *image.RGBA {
	t.Helper()
	s := service.NewDrawingSurface(surfaceadapter.NewRasterCanvas(nil), nil, domain.Style{})
	if err := s.Resize(40, 40, 2); err != nil {
		t.Fatalf("resize: %v", err)
	}
	s.Load(strokes)
	return s.ExportImage().(*image.RGBA)
}

func TestUndoReplaysEraserInItsOriginalMode(t *testing.T) {
	t.Parallel()
	pen := domain.Style{Tool: domain.Pen, Color: "#000000", Thickness: 4}
	eraser := domain.Style{Tool: domain.Eraser, Color: "#000000", Thickness: 2}

	s := service.NewDrawingSurface(surfaceadapter.NewRasterCanvas(nil), nil, pen)
	if err := s.Resize(40, 40, 2); err != nil {
		t.Fatalf("resize: %v", err)
	}
	s.Enable()
	stroke := func(style domain.Style, from, to domain.Point) {
		s.SetColor(style.Color)
		if err := s.SetTool(style.Tool); err != nil {
			t.Fatalf("set tool: %v", err)
		}
		if err := s.SetThickness(style.Thickness); err != nil {
			t.Fatalf("set thickness: %v", err)
		}
		ev := domain.PointerEvent{PointerID: 1, Primary: true}
		ev.X, ev.Y = from.X, from.Y
		_ = s.PointerDown(ev)
		ev.X, ev.Y = to.X, to.Y
		_ = s.PointerMove(ev)
		_ = s.PointerUp(ev)
	}
	horizontal := [2]domain.Point{{X: 5, Y: 20}, {X: 35, Y: 20}}
	vertical := [2]domain.Point{{X: 20, Y: 5}, {X: 20, Y: 35}}
	stroke(pen, horizontal[0], horizontal[1])
	stroke(eraser, vertical[0], vertical[1])
	stroke(pen, vertical[0], vertical[1])

	if _, _, _, a := s.ExportImage().At(40, 40).RGBA(); a != 0xffff {
		t.Fatalf("last pen stroke should cover the crossing")
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	img := s.ExportImage()
	if _, _, _, a := img.At(40, 40).RGBA(); a != 0 {
		t.Fatalf("eraser should be replayed as destination-out, alpha %d", a)
	}
	if _, _, _, a := img.At(16, 40).RGBA(); a != 0xffff {
		t.Fatalf("pen outside the eraser should survive, alpha %d", a)
	}
	if _, _, _, a := img.At(40, 16).RGBA(); a != 0 {
		t.Fatalf("undone pen stroke must be gone, alpha %d", a)
	}

	want := render(t,
		domain.Entry{Style: pen, Points: horizontal[:]},
		domain.Entry{Style: eraser, Points: vertical[:]},
	)
	if !bytes.Equal(img.(*image.RGBA).Pix, want.Pix) {
		t.Fatalf("undo replay should match a fresh render of the remaining history")
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	want = render(t, domain.Entry{Style: pen, Points: horizontal[:]})
	if !bytes.Equal(s.ExportImage().(*image.RGBA).Pix, want.Pix) {
		t.Fatalf("second undo should leave only the first pen stroke")
	}
}

func TestRenderWritesPNGAndVerifiedPDF(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	renderer := usecase.NewRenderInteractor(
		surfaceadapter.NewCanvasFactory(wall),
		surfaceadapter.NewLocalFileWriter(),
		surfaceadapter.NewPDFInspector(),
	)
	out, err := renderer.Render(context.Background(), surfacedto.RenderInput{
		Title:            "P-1 trial 1",
		CSSWidth:         120,
		CSSHeight:        80,
		DevicePixelRatio: 2,
		Background:       "#ffffff",
		Strokes: []surfacedto.StrokeData{
			{Tool: "pen", Color: "#ff0000", Thickness: 3, Points: []surfacedto.PointData{{X: 10, Y: 10}, {X: 100, Y: 60}}},
			{Tool: "pen", Color: "#00ff00", Thickness: 3},
		},
		PNGPath: filepath.Join(dir, "trial.png"),
		PDFPath: filepath.Join(dir, "trial.pdf"),
		Verify:  true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Strokes != 1 {
		t.Fatalf("empty strokes should be skipped, got %d", out.Strokes)
	}
	if out.PDF == nil || out.PDF.Pages != 1 || out.PDF.Title != "P-1 trial 1" || out.PDF.Width != 120 || out.PDF.Height != 80 {
		t.Fatalf("unexpected pdf verification %+v", out.PDF)
	}

	f, err := os.Open(out.PNGPath)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 160 {
		t.Fatalf("png should be css size times dpr, got %v", b)
	}
	if r, g, b, a := img.At(0, 159).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Fatalf("background should be white")
	}
	if r, g, _, _ := img.At(20, 20).RGBA(); r != 0xffff || g != 0 {
		t.Fatalf("expected red at the stroke start")
	}
}

func TestRenderRequiresAnOutput(t *testing.T) {
	t.Parallel()
	renderer := usecase.NewRenderInteractor(surfaceadapter.NewCanvasFactory(wall), surfaceadapter.NewLocalFileWriter(), nil)
	_, err := renderer.Render(context.Background(), surfacedto.RenderInput{CSSWidth: 10, CSSHeight: 10})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	_, err = renderer.Render(context.Background(), surfacedto.RenderInput{PNGPath: filepath.Join(t.TempDir(), "x.png")})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("zero geometry should be rejected, got %v", err)
	}
}
