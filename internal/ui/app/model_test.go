package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gazeink/internal/modules/capture/domain"
	capturein "gazeink/internal/modules/capture/port/in"
	captureout "gazeink/internal/modules/capture/port/out"
	captureservice "gazeink/internal/modules/capture/service"
	captureusecase "gazeink/internal/modules/capture/usecase"
	gazedomain "gazeink/internal/modules/gaze/domain"
	gazeservice "gazeink/internal/modules/gaze/service"
	gazeusecase "gazeink/internal/modules/gaze/usecase"
	surfacein "gazeink/internal/modules/surface/adapter/in"
	surfaceout "gazeink/internal/modules/surface/adapter/out"
	surfacedomain "gazeink/internal/modules/surface/domain"
	surfaceservice "gazeink/internal/modules/surface/service"
	surfaceusecase "gazeink/internal/modules/surface/usecase"
)

type tickTimeline struct{ now float64 }

func (t *tickTimeline) Now() float64 {
	t.now += 4
	return t.now
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }

type memorySink struct{ sessions []domain.Session }

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Write(_ context.Context, session domain.Session) (string, error) {
	s.sessions = append(s.sessions, session)
	return "mem://1", nil
}

type idleEstimator struct{}

func (idleEstimator) Start(context.Context, func(x, y float64)) error { return nil }

func (idleEstimator) Probe(context.Context) (gazedomain.Probe, error) {
	return gazedomain.Probe{}, nil
}

type harness struct {
	t       *testing.T
	model   tea.Model
	capture capturein.Usecase
	surface surfacein.TUIHandler
	sink    *memorySink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sink := &memorySink{}
	store := captureservice.NewCaptureStore(&tickTimeline{}, fixedClock{}, captureservice.Metadata{ParticipantID: "P-T", ScreenWidth: 1000, ScreenHeight: 1000}, captureservice.Options{})
	capture := captureusecase.NewInteractor(store, []captureout.Sink{sink}, nil)

	drawing := surfaceservice.NewDrawingSurface(
		surfaceout.NewRasterCanvas(nil),
		surfaceout.NewCaptureRecorder(capture),
		surfacedomain.Style{Tool: surfacedomain.Pen, Color: "#000000", Thickness: 3},
	)
	surface := surfacein.NewTUIHandler(surfaceusecase.NewInteractor(drawing, surfaceout.NewLocalFileWriter()))
	gaze := gazeusecase.NewInteractor(gazeservice.NewAdapter(capture, nil), idleEstimator{})

	h := &harness{t: t, capture: capture, surface: surface, sink: sink}
	h.model = NewModel(capture, surface, gaze, Options{CellWidth: 8, CellHeight: 16, DevicePixelRatio: 1})
	h.send(tea.WindowSizeMsg{Width: 20, Height: 10})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	return cmd
}

func (h *harness) key(s string) tea.Cmd {
	h.t.Helper()
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) mouse(x, y int, button tea.MouseButton, action tea.MouseAction) {
	h.t.Helper()
	h.send(tea.MouseMsg{X: x, Y: y, Button: button, Action: action})
}

func (h *harness) trial() domain.Trial {
	h.t.Helper()
	trials := h.capture.Snapshot().Trials
	if len(trials) == 0 {
		h.t.Fatalf("no trials recorded")
	}
	return trials[len(trials)-1]
}

func TestResizeDerivesCanvasFromCells(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	status := h.surface.Status()
	if status.CSSWidth != 160 || status.CSSHeight != 112 {
		t.Fatalf("expected 160x112 canvas, got %vx%v", status.CSSWidth, status.CSSHeight)
	}
	if s := h.capture.Snapshot(); s.CanvasWidth != 160 || s.CanvasHeight != 112 {
		t.Fatalf("capture header not updated: %vx%v", s.CanvasWidth, s.CanvasHeight)
	}
}

func TestDrawingDuringTrialIsRecorded(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.mouse(2, 2, tea.MouseButtonLeft, tea.MouseActionPress)
	if h.surface.Status().State != "disabled" {
		t.Fatalf("surface should be disabled before a trial")
	}

	h.key("t")
	if !h.capture.CurrentTrial().Open || h.surface.Status().State != "armed" {
		t.Fatalf("trial should be open and surface armed")
	}

	h.mouse(2, 2, tea.MouseButtonRight, tea.MouseActionPress)
	h.mouse(2, 2, tea.MouseButtonLeft, tea.MouseActionPress)
	h.mouse(5, 2, tea.MouseButtonLeft, tea.MouseActionMotion)
	h.mouse(5, 2, tea.MouseButtonNone, tea.MouseActionRelease)

	strokes := h.trial().Strokes
	if len(strokes) != 1 || len(strokes[0].Points) != 2 {
		t.Fatalf("expected one stroke with two points, got %+v", strokes)
	}
	if p := strokes[0].Points[0]; p.X != 20 || p.Y != 24 || p.Pressure != 0.5 {
		t.Fatalf("cell (2,2) should map to css (20,24) with default pressure, got %+v", p)
	}

	h.key("u")
	if h.surface.Status().HistoryLen != 0 {
		t.Fatalf("undo should empty the surface history")
	}
	h.key("t")
	trial := h.trial()
	if trial.Open() || len(trial.Strokes) != 1 || len(trial.Actions) != 1 {
		t.Fatalf("unexpected trial after end %+v", trial)
	}
	if h.surface.Status().State != "disabled" {
		t.Fatalf("surface should be disabled after the trial")
	}
}

func TestDraggingOffCanvasEndsStroke(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.key("t")
	h.mouse(1, 1, tea.MouseButtonLeft, tea.MouseActionPress)
	h.mouse(1, 9, tea.MouseButtonLeft, tea.MouseActionMotion)
	if h.surface.Status().State != "armed" {
		t.Fatalf("leaving the canvas should end the stroke")
	}
	if strokes := h.trial().Strokes; len(strokes) != 1 || strokes[0].Open() {
		t.Fatalf("expected one closed stroke, got %+v", strokes)
	}
}

func TestGazeDeliveredOnlyWhenTracking(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.key("t")
	h.send(GazeMsg{X: 10, Y: 10})
	h.key("g")
	h.send(GazeMsg{X: 11, Y: 12})
	if got := h.trial().GazeData; len(got) != 1 || got[0].X != 11 {
		t.Fatalf("expected one gaze sample, got %+v", got)
	}

	h.send(GazeReadyMsg{Err: errors.New("no camera")})
	h.send(GazeMsg{X: 1, Y: 1})
	h.key("g")
	if got := h.trial().GazeData; len(got) != 1 {
		t.Fatalf("failed estimator must disable tracking, got %d samples", len(got))
	}
}

func TestPaletteAndExport(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.key(":")
	for _, r := range "thickness 7" {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	h.send(cmd())
	if got := h.surface.Status().Style.Thickness; got != 7 {
		t.Fatalf("expected thickness 7, got %v", got)
	}

	h.key("t")
	h.key("t")
	cmd = h.key("s")
	if cmd == nil {
		t.Fatalf("expected export command")
	}
	msg, ok := cmd().(exportedMsg)
	if !ok || msg.err != nil || msg.out.Trials != 1 {
		t.Fatalf("unexpected export result %+v", msg)
	}
	h.send(msg)
	if len(h.sink.sessions) != 1 {
		t.Fatalf("sink should have received the session")
	}
	if m := h.model.(Model); m.status != "exported 1 trial(s): mem://1" {
		t.Fatalf("unexpected status %q", m.status)
	}
}
