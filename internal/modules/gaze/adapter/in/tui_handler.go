package in

import (
	"context"

	"gazeink/internal/modules/gaze/dto"
	gazein "gazeink/internal/modules/gaze/port/in"
)

type TUIHandler struct {
	usecase gazein.Usecase
}

func NewTUIHandler(usecase gazein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) SetTracking(on bool)      { h.usecase.SetTracking(on) }
func (h TUIHandler) Status() dto.StatusOutput { return h.usecase.Status() }

func (h TUIHandler) Deliver(x, y float64) error { return h.usecase.Deliver(x, y) }

// Stream starts the estimator; emit runs on the estimator's goroutine.
func (h TUIHandler) Stream(ctx context.Context, emit func(x, y float64)) error {
	return h.usecase.Stream(ctx, emit)
}
