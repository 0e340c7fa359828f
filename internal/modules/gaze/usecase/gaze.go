package usecase

import (
	"context"

	gazedto "gazeink/internal/modules/gaze/dto"
	gazein "gazeink/internal/modules/gaze/port/in"
	gazeout "gazeink/internal/modules/gaze/port/out"
	"gazeink/internal/modules/gaze/service"
)

type Interactor struct {
	adapter   *service.Adapter
	estimator gazeout.Estimator
}

func NewInteractor(adapter *service.Adapter, estimator gazeout.Estimator) gazein.Usecase {
	return &Interactor{adapter: adapter, estimator: estimator}
}

func (i *Interactor) SetTracking(on bool) {
	i.adapter.SetTracking(on)
}

func (i *Interactor) Status() gazedto.StatusOutput {
	return gazedto.StatusOutput{Tracking: i.adapter.Tracking(), Delivered: i.adapter.Delivered()}
}

func (i *Interactor) Deliver(x, y float64) error {
	return i.adapter.Deliver(x, y)
}

func (i *Interactor) Run(ctx context.Context) error {
	return i.adapter.Run(ctx, i.estimator)
}

func (i *Interactor) Stream(ctx context.Context, emit func(x, y float64)) error {
	return i.estimator.Start(ctx, emit)
}

func (i *Interactor) Probe(ctx context.Context) (gazedto.ProbeOutput, error) {
	probe, err := i.estimator.Probe(ctx)
	if err != nil {
		return gazedto.ProbeOutput{}, err
	}
	return gazedto.ProbeOutput{
		Name:        probe.Metadata.Name,
		Version:     probe.Metadata.Version,
		Model:       probe.Metadata.Model,
		SampleX:     probe.Sample.X,
		SampleY:     probe.Sample.Y,
		SampleValid: probe.SampleValid,
	}, nil
}
