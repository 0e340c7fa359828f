package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"gazeink/internal/modules/gaze/adapter/out/rpc"
	"gazeink/internal/modules/gaze/domain"
	gazeout "gazeink/internal/modules/gaze/port/out"
	apperrors "gazeink/internal/platform/errors"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 2 * time.Second
)

type PluginOptions struct {
	Interval     time.Duration
	ScreenWidth  float64
	ScreenHeight float64
	Logger       hclog.Logger
}

// PluginSource runs an estimator binary over go-plugin and polls it for
// estimates at a fixed interval.
type PluginSource struct {
	binary domain.Binary
	opts   PluginOptions
}

var _ gazeout.Estimator = (*PluginSource)(nil)

func NewPluginSource(binary domain.Binary, opts PluginOptions) *PluginSource {
	if opts.Interval <= 0 {
		opts.Interval = 33 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &PluginSource{binary: binary, opts: opts}
}

func (s *PluginSource) Start(ctx context.Context, emit func(x, y float64)) error {
	client, closeFn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	go s.poll(ctx, client, closeFn, emit)
	return nil
}

func (s *PluginSource) Probe(ctx context.Context) (domain.Probe, error) {
	client, closeFn, err := s.connect(ctx)
	if err != nil {
		return domain.Probe{}, err
	}
	defer closeFn()

	probe := domain.Probe{}
	callCtx, cancel := callContext(ctx)
	defer cancel()
	info, err := client.Info(callCtx)
	if err != nil {
		return domain.Probe{}, fmt.Errorf("%w: info: %w", apperrors.ErrGazeUnavail, err)
	}
	probe.Metadata = domain.Metadata{Name: info.Name, Version: info.Version, Model: info.Model}

	est, err := client.Estimate(callCtx, s.request(0))
	if err != nil {
		return domain.Probe{}, fmt.Errorf("estimate: %w", err)
	}
	if est.Valid {
		probe.Sample = domain.Estimate{X: est.X, Y: est.Y}
		probe.SampleValid = true
	}
	return probe, nil
}

func (s *PluginSource) poll(ctx context.Context, client rpc.EstimatorClient, closeFn func(), emit func(x, y float64)) {
	defer closeFn()
	logger := s.opts.Logger
	started := time.Now()
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	failures := 0
	for {
		select {
		case <-ctx.Done():
			logger.Debug("estimator polling stopped")
			return
		case <-ticker.C:
		}
		callCtx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
		est, err := client.Estimate(callCtx, s.request(float64(time.Since(started))/float64(time.Millisecond)))
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			if failures == 1 {
				logger.Warn("estimator call failed", "error", err)
			}
			continue
		}
		if failures > 0 {
			logger.Info("estimator recovered", "failed_calls", failures)
			failures = 0
		}
		if est.Valid {
			emit(est.X, est.Y)
		}
	}
}

func (s *PluginSource) request(elapsedMS float64) *rpc.EstimateRequest {
	return &rpc.EstimateRequest{ScreenWidth: s.opts.ScreenWidth, ScreenHeight: s.opts.ScreenHeight, ElapsedMS: elapsedMS}
}

// connect validates and launches the binary, then confirms the estimator
// answers Info. Every failure is reported as ErrGazeUnavail.
func (s *PluginSource) connect(ctx context.Context) (rpc.EstimatorClient, func(), error) {
	if err := s.binary.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrGazeUnavail, err)
	}
	if err := checksumMatches(s.binary.Path, s.binary.SHA256); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrGazeUnavail, err)
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(s.binary.Path),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           s.opts.Logger.Named("plugin"),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("%w: start estimator: %w", apperrors.ErrGazeUnavail, err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("%w: dispense estimator: %w", apperrors.ErrGazeUnavail, err)
	}
	typed, ok := raw.(rpc.EstimatorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("%w: estimator rpc client type mismatch", apperrors.ErrGazeUnavail)
	}

	callCtx, cancel := callContext(ctx)
	defer cancel()
	info, err := typed.Info(callCtx)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("%w: info: %w", apperrors.ErrGazeUnavail, err)
	}
	s.opts.Logger.Info("estimator ready", "name", info.Name, "version", info.Version, "model", info.Model)
	return typed, closeFn, nil
}

func checksumMatches(path, expected string) error {
	if expected == "" {
		return nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read estimator binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return domain.ErrChecksumMismatch
	}
	return nil
}

func callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}
