package usecase

import (
	"context"
	"fmt"

	"gazeink/internal/modules/surface/domain"
	surfacedto "gazeink/internal/modules/surface/dto"
	surfacein "gazeink/internal/modules/surface/port/in"
	surfaceout "gazeink/internal/modules/surface/port/out"
	"gazeink/internal/modules/surface/service"
	apperrors "gazeink/internal/platform/errors"
)

// RenderInteractor replays strokes through the same surface code used for
// live drawing, so offline output matches what the participant saw.
type RenderInteractor struct {
	canvases  surfaceout.CanvasFactory
	files     surfaceout.FileWriter
	inspector surfaceout.DocumentInspector
}

func NewRenderInteractor(canvases surfaceout.CanvasFactory, files surfaceout.FileWriter, inspector surfaceout.DocumentInspector) surfacein.Renderer {
	return &RenderInteractor{canvases: canvases, files: files, inspector: inspector}
}

func (r *RenderInteractor) Render(ctx context.Context, input surfacedto.RenderInput) (surfacedto.RenderOutput, error) {
	if input.PNGPath == "" && input.PDFPath == "" {
		return surfacedto.RenderOutput{}, fmt.Errorf("%w: no output path", apperrors.ErrInvalidInput)
	}
	dpr := input.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}

	raster := r.canvases.NewRaster(input.Background)
	var doc surfaceout.Document
	var mirrors []surfaceout.Canvas
	if input.PDFPath != "" {
		doc = r.canvases.NewDocument(input.Title)
		mirrors = append(mirrors, doc)
	}
	surface := service.NewDrawingSurface(raster, nil, domain.Style{}, mirrors...)
	if err := surface.Resize(input.CSSWidth, input.CSSHeight, dpr); err != nil {
		return surfacedto.RenderOutput{}, err
	}
	entries := make([]domain.Entry, 0, len(input.Strokes))
	for _, s := range input.Strokes {
		entries = append(entries, toEntry(s))
	}
	surface.Load(entries)

	out := surfacedto.RenderOutput{Strokes: len(surface.History())}
	if input.PNGPath != "" {
		if err := r.files.WritePNG(ctx, input.PNGPath, surface.ExportImage()); err != nil {
			return surfacedto.RenderOutput{}, err
		}
		out.PNGPath = input.PNGPath
	}
	if doc != nil {
		if err := r.files.WriteDocument(ctx, input.PDFPath, doc); err != nil {
			return surfacedto.RenderOutput{}, err
		}
		out.PDFPath = input.PDFPath
		if input.Verify && r.inspector != nil {
			info, err := r.inspector.Inspect(ctx, input.PDFPath)
			if err != nil {
				return surfacedto.RenderOutput{}, fmt.Errorf("verify pdf: %w", err)
			}
			out.PDF = &surfacedto.DocumentOutput{Pages: info.Pages, Title: info.Title, Width: info.Width, Height: info.Height}
		}
	}
	return out, nil
}
