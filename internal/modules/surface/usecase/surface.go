package usecase

import (
	"context"
	"image"

	"gazeink/internal/modules/surface/domain"
	surfacedto "gazeink/internal/modules/surface/dto"
	surfacein "gazeink/internal/modules/surface/port/in"
	surfaceout "gazeink/internal/modules/surface/port/out"
	"gazeink/internal/modules/surface/service"
)

type Interactor struct {
	surface *service.DrawingSurface
	files   surfaceout.FileWriter
}

func NewInteractor(surface *service.DrawingSurface, files surfaceout.FileWriter) surfacein.Usecase {
	return &Interactor{surface: surface, files: files}
}

func (i *Interactor) Enable()  { i.surface.Enable() }
func (i *Interactor) Disable() { i.surface.Disable() }

func (i *Interactor) PointerDown(input surfacedto.PointerInput) error {
	return i.surface.PointerDown(toEvent(input))
}

func (i *Interactor) PointerMove(input surfacedto.PointerInput) error {
	return i.surface.PointerMove(toEvent(input))
}

func (i *Interactor) PointerUp(input surfacedto.PointerInput) error {
	return i.surface.PointerUp(toEvent(input))
}

func (i *Interactor) PointerCancel(input surfacedto.PointerInput) error {
	return i.surface.PointerCancel(toEvent(input))
}

func (i *Interactor) PointerLeave(input surfacedto.PointerInput) error {
	return i.surface.PointerLeave(toEvent(input))
}

func (i *Interactor) Undo() error  { return i.surface.Undo() }
func (i *Interactor) Clear() error { return i.surface.Clear() }
func (i *Interactor) Reset()       { i.surface.Reset() }

func (i *Interactor) Resize(cssWidth, cssHeight, dpr float64) error {
	return i.surface.Resize(cssWidth, cssHeight, dpr)
}

func (i *Interactor) SetTool(tool string) error {
	return i.surface.SetTool(domain.Tool(tool))
}

func (i *Interactor) SetColor(color string) {
	i.surface.SetColor(color)
}

func (i *Interactor) SetThickness(thickness float64) error {
	return i.surface.SetThickness(thickness)
}

func (i *Interactor) Status() surfacedto.StatusOutput {
	style := i.surface.Style()
	g := i.surface.Geometry()
	return surfacedto.StatusOutput{
		State:            i.surface.State().String(),
		Style:            surfacedto.StyleOutput{Tool: string(style.Tool), Color: style.Color, Thickness: style.Thickness},
		HistoryLen:       len(i.surface.History()),
		CSSWidth:         g.CSSWidth,
		CSSHeight:        g.CSSHeight,
		DevicePixelRatio: g.DevicePixelRatio,
	}
}

func (i *Interactor) History() []surfacedto.StrokeData {
	history := i.surface.History()
	out := make([]surfacedto.StrokeData, 0, len(history))
	for _, e := range history {
		out = append(out, fromEntry(e))
	}
	return out
}

func (i *Interactor) Snapshot() image.Image {
	return i.surface.ExportImage()
}

func (i *Interactor) ExportPNG(ctx context.Context, path string) error {
	return i.files.WritePNG(ctx, path, i.surface.ExportImage())
}

func toEvent(input surfacedto.PointerInput) domain.PointerEvent {
	return domain.PointerEvent{
		PointerID: input.PointerID,
		Primary:   input.Primary,
		X:         input.X,
		Y:         input.Y,
		Pressure:  input.Pressure,
	}
}

func fromEntry(e domain.Entry) surfacedto.StrokeData {
	points := make([]surfacedto.PointData, 0, len(e.Points))
	for _, p := range e.Points {
		points = append(points, surfacedto.PointData{X: p.X, Y: p.Y})
	}
	return surfacedto.StrokeData{Tool: string(e.Style.Tool), Color: e.Style.Color, Thickness: e.Style.Thickness, Points: points}
}

func toEntry(s surfacedto.StrokeData) domain.Entry {
	points := make([]domain.Point, 0, len(s.Points))
	for _, p := range s.Points {
		points = append(points, domain.Point{X: p.X, Y: p.Y})
	}
	return domain.Entry{Style: domain.Style{Tool: domain.Tool(s.Tool), Color: s.Color, Thickness: s.Thickness}, Points: points}
}
