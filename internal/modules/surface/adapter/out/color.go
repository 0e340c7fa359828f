package out

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// parseColor accepts #rgb and #rrggbb. Anything else renders black.
func parseColor(hex string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
