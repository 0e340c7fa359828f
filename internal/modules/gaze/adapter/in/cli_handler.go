package in

import (
	"context"

	"gazeink/internal/modules/gaze/dto"
	gazein "gazeink/internal/modules/gaze/port/in"
)

type CLIHandler struct {
	usecase gazein.Usecase
}

func NewCLIHandler(usecase gazein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Probe(ctx context.Context) (dto.ProbeOutput, error) {
	return h.usecase.Probe(ctx)
}
