package components

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// upperHalf renders two vertical pixels per cell: foreground on top,
// background below.
const upperHalf = "▀"

// Downsample composites img over white and scales it to cols x rows*2
// pixels, the resolution a half-block preview can show.
func Downsample(img image.Image, cols, rows int) *image.RGBA {
	if cols < 1 || rows < 1 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)
	if img != nil && !img.Bounds().Empty() {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	}
	return dst
}

// Preview renders img into rows lines of cols half-block cells. Runs of
// identical cells share one styled span.
func Preview(img image.Image, cols, rows int) string {
	px := Downsample(img, cols, rows)
	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		run := 0
		var runTop, runBottom string
		flush := func() {
			if run == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(runTop)).Background(lipgloss.Color(runBottom))
			sb.WriteString(style.Render(strings.Repeat(upperHalf, run)))
			run = 0
		}
		for col := 0; col < cols; col++ {
			top := hex(px.RGBAAt(col, row*2))
			bottom := hex(px.RGBAAt(col, row*2+1))
			if run > 0 && (top != runTop || bottom != runBottom) {
				flush()
			}
			runTop, runBottom = top, bottom
			run++
		}
		flush()
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
