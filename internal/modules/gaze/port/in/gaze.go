package in

import (
	"context"

	"gazeink/internal/modules/gaze/dto"
)

type Usecase interface {
	SetTracking(on bool)
	Status() dto.StatusOutput
	// Deliver records an estimate if tracking is on and a trial is open.
	Deliver(x, y float64) error
	// Run starts the estimator and delivers every estimate directly.
	Run(ctx context.Context) error
	// Stream starts the estimator with a caller-supplied callback, for front
	// ends that must hop onto their own event loop before calling Deliver.
	Stream(ctx context.Context, emit func(x, y float64)) error
	Probe(ctx context.Context) (dto.ProbeOutput, error)
}
