package service

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	capturein "gazeink/internal/modules/capture/port/in"
	gazeout "gazeink/internal/modules/gaze/port/out"
)

// Adapter gates estimates into the capture record. Estimates arrive on the
// source's goroutine, so the tracking flag is guarded.
type Adapter struct {
	mu        sync.Mutex
	tracking  bool
	delivered int

	capture capturein.Recorder
	logger  hclog.Logger
}

func NewAdapter(capture capturein.Recorder, logger hclog.Logger) *Adapter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Adapter{capture: capture, logger: logger}
}

func (a *Adapter) SetTracking(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracking != on {
		a.logger.Debug("gaze tracking changed", "tracking", on)
	}
	a.tracking = on
}

func (a *Adapter) Tracking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracking
}

// Delivered counts estimates forwarded to the capture record.
func (a *Adapter) Delivered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.delivered
}

// Deliver drops the estimate unless tracking is on and a trial is open.
func (a *Adapter) Deliver(x, y float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tracking || !a.capture.TrialOpen() {
		return nil
	}
	if err := a.capture.AddGazePoint(x, y); err != nil {
		return err
	}
	a.delivered++
	return nil
}

// Run registers Deliver as the source callback.
func (a *Adapter) Run(ctx context.Context, source gazeout.Source) error {
	return source.Start(ctx, func(x, y float64) {
		if err := a.Deliver(x, y); err != nil {
			a.logger.Debug("gaze estimate rejected", "x", x, "y", y, "error", err)
		}
	})
}
