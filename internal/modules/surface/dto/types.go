package dto

type PointerInput struct {
	PointerID int
	Primary   bool
	X         float64
	Y         float64
	Pressure  *float64
}

type StyleOutput struct {
	Tool      string
	Color     string
	Thickness float64
}

type StatusOutput struct {
	State            string
	Style            StyleOutput
	HistoryLen       int
	CSSWidth         float64
	CSSHeight        float64
	DevicePixelRatio float64
}

type PointData struct {
	X float64
	Y float64
}

type StrokeData struct {
	Tool      string
	Color     string
	Thickness float64
	Points    []PointData
}

type RenderInput struct {
	Title            string
	CSSWidth         float64
	CSSHeight        float64
	DevicePixelRatio float64
	// Background is a hex color; empty renders on transparent.
	Background string
	Strokes    []StrokeData
	PNGPath    string
	PDFPath    string
	Verify     bool
}

type DocumentOutput struct {
	Pages  int
	Title  string
	Width  float64
	Height float64
}

type RenderOutput struct {
	Strokes int
	PNGPath string
	PDFPath string
	PDF     *DocumentOutput
}
