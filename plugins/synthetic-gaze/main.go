package main

import (
	"context"

	"github.com/hashicorp/go-plugin"

	"gazeink/internal/modules/gaze/adapter/out/rpc"
	"gazeink/internal/modules/gaze/domain"
)

// warmupMS mimics a model that needs a few frames before it finds a face.
const warmupMS = 100

type server struct{}

func (server) Info(context.Context, *rpc.Empty) (*rpc.InfoResponse, error) {
	return &rpc.InfoResponse{Name: "synthetic-gaze", Version: "1.0.0", Model: "sweep"}, nil
}

func (server) Estimate(_ context.Context, in *rpc.EstimateRequest) (*rpc.EstimateResponse, error) {
	if in.ElapsedMS < warmupMS {
		return &rpc.EstimateResponse{}, nil
	}
	e := domain.Sweep(in.ElapsedMS, in.ScreenWidth, in.ScreenHeight)
	return &rpc.EstimateResponse{X: e.X, Y: e.Y, Valid: true}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
