package clock

import "time"

// Clock abstracts wall time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Timeline yields elapsed milliseconds since a fixed origin. Every timestamp
// in a capture session comes from one Timeline so that strokes, gaze samples
// and actions share a single time base.
type Timeline interface {
	Now() float64
}

// Monotonic is a Timeline backed by the runtime's monotonic clock reading,
// so wall-clock adjustments never move it backwards.
type Monotonic struct {
	origin time.Time
}

// NewMonotonic starts a timeline at the current instant.
func NewMonotonic() *Monotonic {
	return &Monotonic{origin: time.Now()}
}

func (m *Monotonic) Now() float64 {
	elapsed := time.Since(m.origin)
	if elapsed < 0 {
		return 0
	}
	return float64(elapsed) / float64(time.Millisecond)
}

// Origin returns the instant the timeline was started.
func (m *Monotonic) Origin() time.Time {
	return m.origin
}
