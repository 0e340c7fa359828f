package in

import (
	"context"
	"image"

	"gazeink/internal/modules/surface/dto"
)

type Usecase interface {
	Enable()
	Disable()
	PointerDown(input dto.PointerInput) error
	PointerMove(input dto.PointerInput) error
	PointerUp(input dto.PointerInput) error
	PointerCancel(input dto.PointerInput) error
	PointerLeave(input dto.PointerInput) error
	Undo() error
	Clear() error
	Reset()
	Resize(cssWidth, cssHeight, dpr float64) error
	SetTool(tool string) error
	SetColor(color string)
	SetThickness(thickness float64) error
	Status() dto.StatusOutput
	History() []dto.StrokeData
	Snapshot() image.Image
	ExportPNG(ctx context.Context, path string) error
}

// Renderer replays stored strokes offline into image and vector files.
type Renderer interface {
	Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error)
}
