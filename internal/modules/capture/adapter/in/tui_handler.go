package in

import (
	"context"

	capturedto "gazeink/internal/modules/capture/dto"
	capturein "gazeink/internal/modules/capture/port/in"
)

// TUIHandler exposes trial control and export to the recorder front end.
type TUIHandler struct {
	usecase capturein.Usecase
}

func NewTUIHandler(usecase capturein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) StartTrial() capturedto.TrialOutput { return h.usecase.StartTrial() }

func (h TUIHandler) EndTrial() (capturedto.TrialOutput, error) { return h.usecase.EndTrial() }

func (h TUIHandler) CurrentTrial() capturedto.TrialOutput { return h.usecase.CurrentTrial() }

func (h TUIHandler) SetGeometry(canvasW, canvasH, dpr float64) {
	h.usecase.SetGeometry(canvasW, canvasH, dpr)
}

func (h TUIHandler) Summary() capturedto.SummaryOutput { return h.usecase.Summary() }

func (h TUIHandler) Export(ctx context.Context, input capturedto.ExportInput) (capturedto.ExportOutput, error) {
	return h.usecase.Export(ctx, input)
}
