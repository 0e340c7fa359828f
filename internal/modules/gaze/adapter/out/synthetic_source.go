package out

import (
	"context"
	"time"

	"gazeink/internal/modules/gaze/domain"
	gazeout "gazeink/internal/modules/gaze/port/out"
	"gazeink/internal/platform/clock"
)

// SyntheticSource emits a deterministic sweep in-process. It stands in for a
// real estimator when none is configured.
type SyntheticSource struct {
	interval time.Duration
	width    float64
	height   float64
	timeline clock.Timeline
}

var _ gazeout.Estimator = (*SyntheticSource)(nil)

func NewSyntheticSource(interval time.Duration, width, height float64, timeline clock.Timeline) *SyntheticSource {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	if timeline == nil {
		timeline = clock.NewMonotonic()
	}
	return &SyntheticSource{interval: interval, width: width, height: height, timeline: timeline}
}

func (s *SyntheticSource) Start(ctx context.Context, emit func(x, y float64)) error {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e := domain.Sweep(s.timeline.Now(), s.width, s.height)
				emit(e.X, e.Y)
			}
		}
	}()
	return nil
}

func (s *SyntheticSource) Probe(context.Context) (domain.Probe, error) {
	return domain.Probe{
		Metadata:    domain.Metadata{Name: "synthetic", Version: "1.0.0", Model: "sweep"},
		Sample:      domain.Sweep(s.timeline.Now(), s.width, s.height),
		SampleValid: true,
	}, nil
}
