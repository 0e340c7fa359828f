package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gazeink/internal/modules/gaze/domain"
	apperrors "gazeink/internal/platform/errors"
)

type stepTimeline struct {
	mu  sync.Mutex
	now float64
}

func (s *stepTimeline) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now += 33
	return s.now
}

func TestSyntheticSourceEmitsUntilCancelled(t *testing.T) {
	t.Parallel()
	src := NewSyntheticSource(time.Millisecond, 800, 600, &stepTimeline{})
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan domain.Estimate, 64)
	if err := src.Start(ctx, func(x, y float64) {
		select {
		case got <- domain.Estimate{X: x, Y: y}:
		default:
		}
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		select {
		case e := <-got:
			if e.X < 0 || e.X > 800 || e.Y < 0 || e.Y > 600 {
				t.Fatalf("estimate off screen: %+v", e)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for estimate %d", i)
		}
	}
	cancel()
}

func TestSyntheticSourceProbe(t *testing.T) {
	t.Parallel()
	probe, err := NewSyntheticSource(0, 100, 100, nil).Probe(context.Background())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if probe.Metadata.Name != "synthetic" || !probe.SampleValid {
		t.Fatalf("unexpected probe %+v", probe)
	}
}

func TestPluginSourceInitFailures(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fake := filepath.Join(dir, "estimator")
	if err := os.WriteFile(fake, []byte("not a plugin"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	tests := []struct {
		name   string
		binary domain.Binary
		target error
	}{
		{"no path", domain.Binary{}, apperrors.ErrGazeUnavail},
		{"bad checksum format", domain.Binary{Path: fake, SHA256: "xyz"}, apperrors.ErrGazeUnavail},
		{"checksum mismatch", domain.Binary{Path: fake, SHA256: strings.Repeat("0", 64)}, domain.ErrChecksumMismatch},
		{"missing binary", domain.Binary{Path: filepath.Join(dir, "absent"), SHA256: strings.Repeat("0", 64)}, apperrors.ErrGazeUnavail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewPluginSource(tt.binary, PluginOptions{})
			err := src.Start(context.Background(), func(float64, float64) {})
			if !errors.Is(err, tt.target) || !errors.Is(err, apperrors.ErrGazeUnavail) {
				t.Fatalf("expected %v wrapped as unavailable, got %v", tt.target, err)
			}
			if _, err := src.Probe(context.Background()); !errors.Is(err, apperrors.ErrGazeUnavail) {
				t.Fatalf("probe should fail the same way, got %v", err)
			}
		})
	}
}
