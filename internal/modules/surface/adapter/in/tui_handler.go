package in

import (
	"context"
	"image"

	surfacedto "gazeink/internal/modules/surface/dto"
	surfacein "gazeink/internal/modules/surface/port/in"
)

// TUIHandler adapts terminal mouse input, already converted to CSS pixels,
// to the drawing surface. The left button is the primary pointer.
type TUIHandler struct {
	usecase surfacein.Usecase
}

const mousePointerID = 1

func NewTUIHandler(usecase surfacein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Press(x, y float64, primary bool) error {
	return h.usecase.PointerDown(pointer(x, y, primary))
}

func (h TUIHandler) Drag(x, y float64, primary bool) error {
	return h.usecase.PointerMove(pointer(x, y, primary))
}

func (h TUIHandler) Release(x, y float64, primary bool) error {
	return h.usecase.PointerUp(pointer(x, y, primary))
}

// Leave ends a stroke when the pointer exits the canvas area.
func (h TUIHandler) Leave(x, y float64) error {
	return h.usecase.PointerLeave(pointer(x, y, true))
}

func (h TUIHandler) Enable()  { h.usecase.Enable() }
func (h TUIHandler) Disable() { h.usecase.Disable() }

func (h TUIHandler) Undo() error  { return h.usecase.Undo() }
func (h TUIHandler) Clear() error { return h.usecase.Clear() }
func (h TUIHandler) Reset()       { h.usecase.Reset() }

func (h TUIHandler) Resize(cssWidth, cssHeight, dpr float64) error {
	return h.usecase.Resize(cssWidth, cssHeight, dpr)
}

func (h TUIHandler) SetTool(tool string) error { return h.usecase.SetTool(tool) }
func (h TUIHandler) SetColor(color string)     { h.usecase.SetColor(color) }

func (h TUIHandler) SetThickness(thickness float64) error {
	return h.usecase.SetThickness(thickness)
}

func (h TUIHandler) Status() surfacedto.StatusOutput { return h.usecase.Status() }

func (h TUIHandler) Snapshot() image.Image { return h.usecase.Snapshot() }

func (h TUIHandler) ExportPNG(ctx context.Context, path string) error {
	return h.usecase.ExportPNG(ctx, path)
}

// Terminals report no pressure; the capture layer records its default.
func pointer(x, y float64, primary bool) surfacedto.PointerInput {
	return surfacedto.PointerInput{PointerID: mousePointerID, Primary: primary, X: x, Y: y}
}
