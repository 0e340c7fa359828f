package bootstrap

import (
	"context"
	"fmt"

	capturedto "gazeink/internal/modules/capture/dto"
	surfacedto "gazeink/internal/modules/surface/dto"
)

type RenderRequest struct {
	ExportPath string
	ArchiveID  int64
	Trial      int
	Visible    bool
	Background string
	PNGPath    string
	PDFPath    string
	Verify     bool
}

// RenderTrial replays one stored trial at the canvas size it was recorded at.
func (a *App) RenderTrial(ctx context.Context, req RenderRequest) (surfacedto.RenderOutput, error) {
	trial, err := a.CaptureCLI.TrialStrokes(ctx, capturedto.TrialStrokesInput{
		Path:      req.ExportPath,
		ArchiveID: req.ArchiveID,
		Trial:     req.Trial,
		Visible:   req.Visible,
	})
	if err != nil {
		return surfacedto.RenderOutput{}, err
	}
	width, height := trial.CanvasWidth, trial.CanvasHeight
	if width <= 0 || height <= 0 {
		width, height = a.Config.Screen.Width, a.Config.Screen.Height
	}

	strokes := make([]surfacedto.StrokeData, 0, len(trial.Strokes))
	for _, s := range trial.Strokes {
		points := make([]surfacedto.PointData, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, surfacedto.PointData{X: p.X, Y: p.Y})
		}
		strokes = append(strokes, surfacedto.StrokeData{Tool: s.Tool, Color: s.Color, Thickness: s.Thickness, Points: points})
	}
	return a.SurfaceCLI.Render(ctx, surfacedto.RenderInput{
		Title:            fmt.Sprintf("%s trial %d", trial.ParticipantID, trial.TrialNumber),
		CSSWidth:         width,
		CSSHeight:        height,
		DevicePixelRatio: trial.DevicePixelRatio,
		Background:       req.Background,
		Strokes:          strokes,
		PNGPath:          req.PNGPath,
		PDFPath:          req.PDFPath,
		Verify:           req.Verify,
	})
}
