package in

import (
	"context"

	capturedto "gazeink/internal/modules/capture/dto"
	capturein "gazeink/internal/modules/capture/port/in"
)

type CLIHandler struct {
	archive capturein.Archive
}

func NewCLIHandler(archive capturein.Archive) CLIHandler {
	return CLIHandler{archive: archive}
}

func (h CLIHandler) Summary(ctx context.Context, exportPath string) (capturedto.SummaryOutput, error) {
	return h.archive.SummarizeExport(ctx, exportPath)
}

func (h CLIHandler) Archive(ctx context.Context, exportPath string) (capturedto.WrittenOutput, error) {
	return h.archive.ArchiveExport(ctx, exportPath)
}

func (h CLIHandler) ListArchived(ctx context.Context) ([]capturedto.ArchivedOutput, error) {
	return h.archive.ListArchived(ctx)
}

func (h CLIHandler) TrialStrokes(ctx context.Context, input capturedto.TrialStrokesInput) (capturedto.TrialStrokesOutput, error) {
	return h.archive.TrialStrokes(ctx, input)
}
