package out

import (
	capturedto "gazeink/internal/modules/capture/dto"
	capturein "gazeink/internal/modules/capture/port/in"
	"gazeink/internal/modules/surface/domain"
	surfaceout "gazeink/internal/modules/surface/port/out"
)

// CaptureRecorder forwards surface strokes into the capture module.
type CaptureRecorder struct {
	capture capturein.Recorder
}

var _ surfaceout.Recorder = CaptureRecorder{}

func NewCaptureRecorder(capture capturein.Recorder) CaptureRecorder {
	return CaptureRecorder{capture: capture}
}

func (r CaptureRecorder) StartStroke(style domain.Style) error {
	return r.capture.StartStroke(capturedto.StrokeInput{Tool: string(style.Tool), Color: style.Color, Thickness: style.Thickness})
}

func (r CaptureRecorder) AddPoint(x, y float64, pressure *float64) error {
	return r.capture.AddStrokePoint(capturedto.PointInput{X: x, Y: y, Pressure: pressure})
}

func (r CaptureRecorder) EndStroke() error {
	return r.capture.EndStroke()
}

func (r CaptureRecorder) RecordAction(kind string) error {
	return r.capture.RecordAction(kind)
}
