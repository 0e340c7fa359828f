package out

import (
	"context"

	"gazeink/internal/modules/gaze/domain"
)

// Source produces gaze estimates. Start reports whether the estimator came up;
// on success it keeps calling emit from its own goroutine until ctx is done.
type Source interface {
	Start(ctx context.Context, emit func(x, y float64)) error
}

type Prober interface {
	Probe(ctx context.Context) (domain.Probe, error)
}

// Estimator is a source that can also be probed once.
type Estimator interface {
	Source
	Prober
}
