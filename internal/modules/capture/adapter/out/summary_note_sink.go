package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gazeink/internal/modules/capture/domain"
	captureout "gazeink/internal/modules/capture/port/out"
	"gazeink/internal/platform/clock"
	"gazeink/internal/platform/markdown"
	"gazeink/internal/platform/slug"
)

const noteSchemaVersion = 1

type noteMeta struct {
	SchemaVersion    int     `yaml:"schema_version"`
	Participant      string  `yaml:"participant"`
	SessionStartedAt string  `yaml:"session_started_at"`
	ExportedAt       string  `yaml:"exported_at"`
	Trials           int     `yaml:"trials"`
	Strokes          int     `yaml:"strokes"`
	GazeSamples      int     `yaml:"gaze_samples"`
	Screen           string  `yaml:"screen"`
	Canvas           string  `yaml:"canvas"`
	DevicePixelRatio float64 `yaml:"device_pixel_ratio"`
}

var trialsBlock = markdown.NewBlock("trials")

// SummaryNoteSink keeps one Markdown note per participant. Re-exporting
// refreshes the front matter and the trial table; anything else the
// experimenter wrote in the note is preserved.
type SummaryNoteSink struct {
	dir   string
	clock clock.Clock
}

var _ captureout.Sink = (*SummaryNoteSink)(nil)

func NewSummaryNoteSink(dir string, clock clock.Clock) *SummaryNoteSink {
	return &SummaryNoteSink{dir: dir, clock: clock}
}

func (s *SummaryNoteSink) Name() string { return "note" }

func (s *SummaryNoteSink) Write(_ context.Context, session domain.Session) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create note dir: %w", err)
	}
	path := filepath.Join(s.dir, slug.Make(session.ParticipantID)+".md")

	body := fmt.Sprintf("# Session %s\n\n## Notes\n\n", session.ParticipantID)
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		body, _, err = markdown.Split(string(existing), nil)
		if err != nil {
			return "", fmt.Errorf("parse existing note: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read existing note: %w", err)
	}

	summary := domain.Summarize(session, 0)
	totals := summary.Totals()
	meta := noteMeta{
		SchemaVersion:    noteSchemaVersion,
		Participant:      session.ParticipantID,
		SessionStartedAt: time.UnixMilli(session.SessionStartTime).UTC().Format(time.RFC3339),
		ExportedAt:       s.clock.Now().UTC().Format(time.RFC3339),
		Trials:           len(summary.Trials),
		Strokes:          totals.Strokes,
		GazeSamples:      totals.GazeSamples,
		Screen:           fmt.Sprintf("%gx%g", session.ScreenWidth, session.ScreenHeight),
		Canvas:           fmt.Sprintf("%gx%g", session.CanvasWidth, session.CanvasHeight),
		DevicePixelRatio: session.DevicePixelRatio,
	}
	rendered, err := markdown.Compose(meta, trialsBlock.Replace(body, trialTable(summary)))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write summary note: %w", err)
	}
	return path, nil
}

func trialTable(summary domain.SessionSummary) string {
	b := strings.Builder{}
	b.WriteString("| Trial | Duration (s) | Strokes | Points | Gaze | Actions | Status |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, t := range summary.Trials {
		status := "closed"
		if t.Open {
			status = "open"
		}
		fmt.Fprintf(&b, "| %d | %.1f | %d | %d | %d | %d | %s |\n",
			t.TrialNumber, t.DurationMS/1000, t.Strokes, t.Points, t.GazeSamples, t.Actions, status)
	}
	return b.String()
}
