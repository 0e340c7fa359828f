package out

import (
	"context"
	"image"
	"io"

	"gazeink/internal/modules/surface/domain"
)

// Canvas receives drawing commands in CSS pixel space.
type Canvas interface {
	Resize(geometry domain.Geometry)
	Clear()
	DrawPath(style domain.Style, points []domain.Point)
}

// Raster is a Canvas whose content can be read back as pixels.
type Raster interface {
	Canvas
	Image() image.Image
}

// Recorder forwards stroke data and undo/clear events to the capture record.
type Recorder interface {
	StartStroke(style domain.Style) error
	AddPoint(x, y float64, pressure *float64) error
	EndStroke() error
	RecordAction(kind string) error
}

type DocumentInspector interface {
	Inspect(ctx context.Context, path string) (domain.DocumentInfo, error)
}

// Document is a vector canvas that can serialize itself.
type Document interface {
	Canvas
	io.WriterTo
}

type CanvasFactory interface {
	NewRaster(background string) Raster
	NewDocument(title string) Document
}

type FileWriter interface {
	WritePNG(ctx context.Context, path string, img image.Image) error
	WriteDocument(ctx context.Context, path string, doc io.WriterTo) error
}
