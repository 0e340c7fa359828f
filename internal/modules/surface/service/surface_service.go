package service

import (
	"fmt"
	"image"

	"gazeink/internal/modules/surface/domain"
	surfaceout "gazeink/internal/modules/surface/port/out"
	apperrors "gazeink/internal/platform/errors"
)

const (
	actionUndo  = "undo"
	actionClear = "clear"
)

// DrawingSurface turns pointer input into strokes. It keeps its own rendering
// history, separate from the capture record, and repaints by replaying that
// history from scratch whenever it shrinks or the geometry changes.
type DrawingSurface struct {
	raster   surfaceout.Raster
	mirrors  []surfaceout.Canvas
	recorder surfaceout.Recorder

	state    domain.State
	style    domain.Style
	geometry domain.Geometry

	history []domain.Entry
	buffer  []domain.Point
	stroke  domain.Style
	pointer int
}

// NewDrawingSurface draws into raster and repeats every command on mirrors.
// A nil recorder draws without recording.
func NewDrawingSurface(raster surfaceout.Raster, recorder surfaceout.Recorder, style domain.Style, mirrors ...surfaceout.Canvas) *DrawingSurface {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &DrawingSurface{raster: raster, mirrors: mirrors, recorder: recorder, style: style}
}

func (s *DrawingSurface) State() domain.State { return s.state }

func (s *DrawingSurface) Style() domain.Style { return s.style }

func (s *DrawingSurface) Geometry() domain.Geometry { return s.geometry }

// Enable arms the surface. It has no effect while a stroke is in progress.
func (s *DrawingSurface) Enable() {
	if s.state == domain.Disabled {
		s.state = domain.Armed
	}
}

// Disable stops accepting input. An in-progress stroke is abandoned: what was
// drawn stays on screen, nothing is committed and the recorder is not told.
func (s *DrawingSurface) Disable() {
	s.state = domain.Disabled
	s.buffer = nil
}

func (s *DrawingSurface) SetTool(tool domain.Tool) error {
	if !tool.Valid() {
		return fmt.Errorf("%w: tool %q", apperrors.ErrInvalidInput, tool)
	}
	s.style.Tool = tool
	return nil
}

func (s *DrawingSurface) SetColor(color string) {
	s.style.Color = color
}

func (s *DrawingSurface) SetThickness(thickness float64) error {
	if !(thickness > 0) {
		return fmt.Errorf("%w: thickness %v", apperrors.ErrInvalidInput, thickness)
	}
	s.style.Thickness = thickness
	return nil
}

func (s *DrawingSurface) PointerDown(ev domain.PointerEvent) error {
	if s.state != domain.Armed || !ev.Primary {
		return nil
	}
	s.state = domain.Capturing
	s.pointer = ev.PointerID
	s.stroke = s.style
	p := ev.Point()
	s.buffer = []domain.Point{p}
	s.draw(s.stroke, []domain.Point{p})

	if err := s.recorder.StartStroke(s.stroke); err != nil {
		return err
	}
	return s.recorder.AddPoint(ev.X, ev.Y, ev.Pressure)
}

// PointerMove draws the new segment immediately rather than at stroke end.
func (s *DrawingSurface) PointerMove(ev domain.PointerEvent) error {
	if !s.owns(ev) {
		return nil
	}
	p := ev.Point()
	prev := s.buffer[len(s.buffer)-1]
	s.buffer = append(s.buffer, p)
	s.draw(s.stroke, []domain.Point{prev, p})
	return s.recorder.AddPoint(ev.X, ev.Y, ev.Pressure)
}

func (s *DrawingSurface) PointerUp(ev domain.PointerEvent) error {
	if !s.owns(ev) {
		return nil
	}
	s.state = domain.Armed
	if len(s.buffer) > 0 {
		s.history = append(s.history, domain.Entry{Style: s.stroke, Points: s.buffer})
	}
	s.buffer = nil
	return s.recorder.EndStroke()
}

func (s *DrawingSurface) PointerCancel(ev domain.PointerEvent) error {
	return s.PointerUp(ev)
}

func (s *DrawingSurface) PointerLeave(ev domain.PointerEvent) error {
	return s.PointerUp(ev)
}

// Undo drops the newest history entry, repaints and logs an undo action.
func (s *DrawingSurface) Undo() error {
	if n := len(s.history); n > 0 {
		s.history = s.history[:n-1]
	}
	s.replay()
	return s.recorder.RecordAction(actionUndo)
}

func (s *DrawingSurface) Clear() error {
	s.history = nil
	s.replay()
	return s.recorder.RecordAction(actionClear)
}

// Reset wipes history and any in-progress stroke for a new trial without
// touching the capture record.
func (s *DrawingSurface) Reset() {
	s.history = nil
	s.buffer = nil
	if s.state == domain.Capturing {
		s.state = domain.Armed
	}
	s.clear()
}

// Resize re-derives the backing buffer and replays history. Recorded
// coordinates are not rescaled.
func (s *DrawingSurface) Resize(cssWidth, cssHeight, dpr float64) error {
	if !(cssWidth > 0) || !(cssHeight > 0) || !(dpr > 0) {
		return fmt.Errorf("%w: geometry %vx%v@%v", apperrors.ErrInvalidInput, cssWidth, cssHeight, dpr)
	}
	s.geometry = domain.Geometry{CSSWidth: cssWidth, CSSHeight: cssHeight, DevicePixelRatio: dpr}
	s.raster.Resize(s.geometry)
	for _, m := range s.mirrors {
		m.Resize(s.geometry)
	}
	s.replay()
	return nil
}

// Load replaces the rendering history with entries and repaints. Nothing is
// recorded.
func (s *DrawingSurface) Load(entries []domain.Entry) {
	s.history = make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if len(e.Points) == 0 {
			continue
		}
		s.history = append(s.history, e.Clone())
	}
	s.replay()
}

func (s *DrawingSurface) History() []domain.Entry {
	out := make([]domain.Entry, 0, len(s.history))
	for _, e := range s.history {
		out = append(out, e.Clone())
	}
	return out
}

// ExportImage returns the current pixels without changing any state.
func (s *DrawingSurface) ExportImage() image.Image {
	return s.raster.Image()
}

func (s *DrawingSurface) owns(ev domain.PointerEvent) bool {
	return s.state == domain.Capturing && ev.Primary && ev.PointerID == s.pointer
}

// replay clears and redraws every history entry in order. A stroke still in
// progress is drawn on top so it survives an undo or clear mid-gesture.
func (s *DrawingSurface) replay() {
	s.clear()
	for _, e := range s.history {
		s.draw(e.Style, e.Points)
	}
	if s.state == domain.Capturing && len(s.buffer) > 0 {
		s.draw(s.stroke, s.buffer)
	}
}

func (s *DrawingSurface) clear() {
	s.raster.Clear()
	for _, m := range s.mirrors {
		m.Clear()
	}
}

func (s *DrawingSurface) draw(style domain.Style, points []domain.Point) {
	s.raster.DrawPath(style, points)
	for _, m := range s.mirrors {
		m.DrawPath(style, points)
	}
}

type nopRecorder struct{}

func (nopRecorder) StartStroke(domain.Style) error            { return nil }
func (nopRecorder) AddPoint(float64, float64, *float64) error { return nil }
func (nopRecorder) EndStroke() error                          { return nil }
func (nopRecorder) RecordAction(string) error                 { return nil }
