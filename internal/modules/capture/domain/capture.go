package domain

import "math"

type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

func (t Tool) Valid() bool {
	return t == ToolPen || t == ToolEraser
}

type ActionType string

const (
	ActionUndo  ActionType = "undo"
	ActionClear ActionType = "clear"
)

func (a ActionType) Valid() bool {
	return a == ActionUndo || a == ActionClear
}

// DefaultPressure is recorded when the input device reports none.
const DefaultPressure = 0.5

// Session is the export payload. Field names are part of the file format.
type Session struct {
	ParticipantID    string  `json:"participantId"`
	SessionStartTime int64   `json:"sessionStartTime"`
	ScreenWidth      float64 `json:"screenWidth"`
	ScreenHeight     float64 `json:"screenHeight"`
	CanvasWidth      float64 `json:"canvasWidth"`
	CanvasHeight     float64 `json:"canvasHeight"`
	DevicePixelRatio float64 `json:"devicePixelRatio"`
	UserAgent        string  `json:"userAgent"`
	Trials           []Trial `json:"trials"`
}

type Trial struct {
	TrialNumber int          `json:"trialNumber"`
	StartTime   float64      `json:"startTime"`
	EndTime     *float64     `json:"endTime"`
	Strokes     []Stroke     `json:"strokes"`
	Actions     []Action     `json:"actions"`
	GazeData    []GazeSample `json:"gazeData"`
}

type Stroke struct {
	StrokeID  int           `json:"strokeId"`
	Tool      Tool          `json:"tool"`
	Color     string        `json:"color"`
	Thickness float64       `json:"thickness"`
	StartTime float64       `json:"startTime"`
	EndTime   *float64      `json:"endTime"`
	Points    []StrokePoint `json:"points"`
}

type StrokePoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
	Time     float64 `json:"time"`
}

type Action struct {
	Type ActionType `json:"type"`
	Time float64    `json:"time"`
}

type GazeSample struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Time float64 `json:"time"`
}

func (t Trial) Open() bool {
	return t.EndTime == nil
}

func (s Stroke) Open() bool {
	return s.EndTime == nil
}

// NewPoint rounds coordinates to 2 decimals and pressure to 3, defaulting and
// clamping pressure into [0,1].
func NewPoint(x, y float64, pressure *float64, at float64) StrokePoint {
	p := DefaultPressure
	if pressure != nil && !math.IsNaN(*pressure) {
		p = clamp(*pressure, 0, 1)
	}
	return StrokePoint{X: Round(x, 2), Y: Round(y, 2), Pressure: Round(p, 3), Time: at}
}

// NewGazeSample clamps the estimate into the screen rectangle before rounding.
func NewGazeSample(x, y, screenW, screenH, at float64) GazeSample {
	return GazeSample{
		X:    Round(clamp(x, 0, screenW), 2),
		Y:    Round(clamp(y, 0, screenH), 2),
		Time: at,
	}
}

// Round rounds halves toward positive infinity.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Floor(v*scale+0.5) / scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if hi >= lo && v > hi {
		return hi
	}
	return v
}

// Clone deep-copies the session. Open strokes without points are left out
// and every collection is non-nil so the JSON form always carries [] rather
// than null.
func (s Session) Clone() Session {
	out := s
	out.Trials = make([]Trial, 0, len(s.Trials))
	for _, t := range s.Trials {
		out.Trials = append(out.Trials, t.Clone())
	}
	return out
}

func (t Trial) Clone() Trial {
	out := t
	out.EndTime = copyTime(t.EndTime)
	out.Strokes = make([]Stroke, 0, len(t.Strokes))
	for _, st := range t.Strokes {
		if st.Open() && len(st.Points) == 0 {
			continue
		}
		out.Strokes = append(out.Strokes, st.Clone())
	}
	out.Actions = append(make([]Action, 0, len(t.Actions)), t.Actions...)
	out.GazeData = append(make([]GazeSample, 0, len(t.GazeData)), t.GazeData...)
	return out
}

func (s Stroke) Clone() Stroke {
	out := s
	out.EndTime = copyTime(s.EndTime)
	out.Points = append(make([]StrokePoint, 0, len(s.Points)), s.Points...)
	return out
}

func copyTime(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
