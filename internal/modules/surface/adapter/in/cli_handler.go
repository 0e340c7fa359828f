package in

import (
	"context"

	surfacedto "gazeink/internal/modules/surface/dto"
	surfacein "gazeink/internal/modules/surface/port/in"
)

type CLIHandler struct {
	renderer surfacein.Renderer
}

func NewCLIHandler(renderer surfacein.Renderer) CLIHandler {
	return CLIHandler{renderer: renderer}
}

func (h CLIHandler) Render(ctx context.Context, input surfacedto.RenderInput) (surfacedto.RenderOutput, error) {
	return h.renderer.Render(ctx, input)
}
