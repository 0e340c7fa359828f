package out

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"gazeink/internal/modules/surface/domain"
	surfaceout "gazeink/internal/modules/surface/port/out"
)

type pdfPath struct {
	style  domain.Style
	points []domain.Point
}

// PDFCanvas collects drawing commands and writes them as vector paths on a
// single page measured in CSS pixels (1px = 1pt). PDF has no destination-out
// blend, so eraser paths are painted in the page color.
type PDFCanvas struct {
	geometry domain.Geometry
	paths    []pdfPath
	title    string
	created  time.Time
}

var _ surfaceout.Canvas = (*PDFCanvas)(nil)

func NewPDFCanvas(title string, created time.Time) *PDFCanvas {
	return &PDFCanvas{title: title, created: created, geometry: domain.Geometry{CSSWidth: 1, CSSHeight: 1, DevicePixelRatio: 1}}
}

func (c *PDFCanvas) Resize(g domain.Geometry) {
	c.geometry = g
	c.paths = nil
}

func (c *PDFCanvas) Clear() {
	c.paths = nil
}

func (c *PDFCanvas) DrawPath(style domain.Style, points []domain.Point) {
	if len(points) == 0 {
		return
	}
	c.paths = append(c.paths, pdfPath{style: style, points: append([]domain.Point(nil), points...)})
}

func (c *PDFCanvas) WriteTo(w io.Writer) (int64, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: c.geometry.CSSWidth, Ht: c.geometry.CSSHeight},
	})
	pdf.SetCompression(false)
	pdf.SetTitle(c.title, false)
	pdf.SetCreator("gazeink", false)
	pdf.SetCreationDate(c.created)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for _, p := range c.paths {
		rgb := parseColor(p.style.Color)
		if p.style.Tool == domain.Eraser {
			rgb.R, rgb.G, rgb.B = 0xff, 0xff, 0xff
		}
		width := p.style.LineWidth()
		if len(p.points) == 1 || samePoint(p.points) {
			pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
			pdf.Circle(p.points[0].X, p.points[0].Y, width/2, "F")
			continue
		}
		pdf.SetDrawColor(int(rgb.R), int(rgb.G), int(rgb.B))
		pdf.SetLineWidth(width)
		pdf.MoveTo(p.points[0].X, p.points[0].Y)
		for _, pt := range p.points[1:] {
			pdf.LineTo(pt.X, pt.Y)
		}
		pdf.DrawPath("D")
	}

	cw := &countingWriter{w: w}
	if err := pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("write pdf: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
