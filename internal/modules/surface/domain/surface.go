package domain

// State of the drawing surface's pointer state machine.
type State int

const (
	Disabled State = iota
	Armed
	Capturing
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Capturing:
		return "capturing"
	default:
		return "disabled"
	}
}

type Tool string

const (
	Pen    Tool = "pen"
	Eraser Tool = "eraser"
)

func (t Tool) Valid() bool {
	return t == Pen || t == Eraser
}

// EraserScale widens eraser strokes relative to their nominal thickness.
const EraserScale = 4

type Style struct {
	Tool      Tool
	Color     string
	Thickness float64
}

// LineWidth is the rendered width in CSS pixels.
func (s Style) LineWidth() float64 {
	if s.Tool == Eraser {
		return s.Thickness * EraserScale
	}
	return s.Thickness
}

// Point is in CSS pixel space.
type Point struct {
	X float64
	Y float64
}

// PointerEvent is one platform pointer notification. Only the primary
// pointer draws.
type PointerEvent struct {
	PointerID int
	Primary   bool
	X         float64
	Y         float64
	Pressure  *float64
}

func (e PointerEvent) Point() Point {
	return Point{X: e.X, Y: e.Y}
}

// Entry is one committed stroke in the rendering history.
type Entry struct {
	Style  Style
	Points []Point
}

func (e Entry) Clone() Entry {
	return Entry{Style: e.Style, Points: append([]Point(nil), e.Points...)}
}

// Geometry relates CSS size to the backing buffer.
type Geometry struct {
	CSSWidth         float64
	CSSHeight        float64
	DevicePixelRatio float64
}

// BufferSize is the backing pixel size, css x dpr rounded to whole pixels.
func (g Geometry) BufferSize() (int, int) {
	w := int(g.CSSWidth*g.DevicePixelRatio + 0.5)
	h := int(g.CSSHeight*g.DevicePixelRatio + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// DocumentInfo describes a rendered document read back from disk.
type DocumentInfo struct {
	Pages  int
	Title  string
	Width  float64
	Height float64
}
