package out

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"gazeink/internal/modules/surface/domain"
	surfaceout "gazeink/internal/modules/surface/port/out"
)

// RasterCanvas rasterizes strokes into an RGBA buffer sized css x dpr. Each
// path becomes an anti-aliased coverage mask with round caps and joins; pens
// composite the mask source-over, erasers remove destination alpha under it.
type RasterCanvas struct {
	img        *image.RGBA
	mask       *image.Alpha
	scale      float64
	background color.Color

	scanner *rasterx.ScannerGV
	stroker *rasterx.Stroker
	filler  *rasterx.Filler
}

var _ surfaceout.Raster = (*RasterCanvas)(nil)

// NewRasterCanvas starts with a 1x1 buffer until Resize is called. A nil
// background clears to transparent.
func NewRasterCanvas(background color.Color) *RasterCanvas {
	c := &RasterCanvas{background: background, scale: 1}
	c.Resize(domain.Geometry{CSSWidth: 1, CSSHeight: 1, DevicePixelRatio: 1})
	return c
}

func (c *RasterCanvas) Resize(g domain.Geometry) {
	w, h := g.BufferSize()
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.mask = image.NewAlpha(c.img.Bounds())
	c.scale = g.DevicePixelRatio
	c.scanner = rasterx.NewScannerGV(w, h, c.mask, c.mask.Bounds())
	c.scanner.SetColor(color.White)
	c.stroker = rasterx.NewStroker(w, h, c.scanner)
	c.filler = rasterx.NewFiller(w, h, c.scanner)
	c.Clear()
}

func (c *RasterCanvas) Clear() {
	if c.background == nil {
		draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		return
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
}

func (c *RasterCanvas) DrawPath(style domain.Style, points []domain.Point) {
	if len(points) == 0 {
		return
	}
	c.coverage(style.LineWidth()*c.scale, points)
	if style.Tool == domain.Eraser {
		c.eraseUnderMask()
		return
	}
	b := c.img.Bounds()
	draw.DrawMask(c.img, b, image.NewUniform(parseColor(style.Color)), image.Point{}, c.mask, b.Min, draw.Over)
}

// Image returns a copy of the buffer.
func (c *RasterCanvas) Image() image.Image {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// coverage renders the stroked path into c.mask in device pixels.
func (c *RasterCanvas) coverage(width float64, points []domain.Point) {
	for i := range c.mask.Pix {
		c.mask.Pix[i] = 0
	}
	c.scanner.Clear()

	if len(points) == 1 || samePoint(points) {
		p := points[0]
		rasterx.AddCircle(p.X*c.scale, p.Y*c.scale, width/2, c.filler)
		c.filler.Draw()
		return
	}

	c.stroker.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64), rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round)
	c.stroker.Start(rasterx.ToFixedP(points[0].X*c.scale, points[0].Y*c.scale))
	prev := points[0]
	for _, p := range points[1:] {
		if p == prev {
			continue
		}
		c.stroker.Line(rasterx.ToFixedP(p.X*c.scale, p.Y*c.scale))
		prev = p
	}
	c.stroker.Stop(false)
	c.stroker.Draw()
}

// eraseUnderMask applies destination-out: every premultiplied channel is
// scaled by the inverse of the mask coverage.
func (c *RasterCanvas) eraseUnderMask() {
	for i, a := range c.mask.Pix {
		if a == 0 {
			continue
		}
		keep := uint32(0xff - a)
		px := c.img.Pix[i*4 : i*4+4 : i*4+4]
		for j := range px {
			px[j] = uint8((uint32(px[j])*keep + 0x7f) / 0xff)
		}
	}
}

func samePoint(points []domain.Point) bool {
	for _, p := range points[1:] {
		if p != points[0] {
			return false
		}
	}
	return true
}
