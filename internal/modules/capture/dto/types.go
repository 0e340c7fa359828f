package dto

type TrialOutput struct {
	TrialNumber int
	Open        bool
}

type StrokeInput struct {
	Tool      string
	Color     string
	Thickness float64
}

type PointInput struct {
	X        float64
	Y        float64
	Pressure *float64
}

type TrialSummaryOutput struct {
	TrialNumber int
	DurationMS  float64
	Strokes     int
	Points      int
	GazeSamples int
	Actions     int
	Open        bool
}

type SummaryOutput struct {
	ParticipantID string
	Trials        []TrialSummaryOutput
	Totals        TrialSummaryOutput
}

type ExportInput struct {
	// Sinks limits the export to the named sinks; empty means all.
	Sinks []string
}

type WrittenOutput struct {
	Sink     string
	Location string
}

type ExportOutput struct {
	ParticipantID string
	Trials        int
	Written       []WrittenOutput
}

type ArchivedOutput struct {
	ID            int64
	ParticipantID string
	StartedAt     int64
	Trials        int
	ArchivedAt    string
}

// TrialStrokesInput picks one trial from an export file, or from the archive
// when Path is empty. Trial 0 means the last trial.
type TrialStrokesInput struct {
	Path      string
	ArchiveID int64
	Trial     int
	// Visible keeps only what was on screen at trial end.
	Visible bool
}

type PointOutput struct {
	X float64
	Y float64
}

type StrokeOutput struct {
	Tool      string
	Color     string
	Thickness float64
	Points    []PointOutput
}

type TrialStrokesOutput struct {
	ParticipantID    string
	TrialNumber      int
	CanvasWidth      float64
	CanvasHeight     float64
	DevicePixelRatio float64
	Strokes          []StrokeOutput
}
