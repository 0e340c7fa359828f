package out

import (
	"image/color"

	surfaceout "gazeink/internal/modules/surface/port/out"
	"gazeink/internal/platform/clock"
)

type CanvasFactory struct {
	clock clock.Clock
}

var _ surfaceout.CanvasFactory = CanvasFactory{}

func NewCanvasFactory(clock clock.Clock) CanvasFactory {
	return CanvasFactory{clock: clock}
}

func (f CanvasFactory) NewRaster(background string) surfaceout.Raster {
	var bg color.Color
	if background != "" {
		bg = parseColor(background)
	}
	return NewRasterCanvas(bg)
}

func (f CanvasFactory) NewDocument(title string) surfaceout.Document {
	return NewPDFCanvas(title, f.clock.Now())
}
