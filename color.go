package tilework

import (
	"image/color"
	"math"
	"strconv"

	"github.com/gogpu/tilework/internal/pixel"
)

// RGBA is a straight (non-premultiplied) color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// RGBAf returns a color with the given alpha.
func RGBAf(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA" with an optional
// leading '#'. Malformed input yields opaque black.
func Hex(s string) RGBA {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}

	var short bool
	switch len(s) {
	case 3, 4:
		short = true
	case 6, 8:
	default:
		return Black
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black
	}

	var c [4]uint64
	c[3] = 255
	if short {
		for i := range len(s) {
			nib := (v >> (4 * (len(s) - 1 - i))) & 0xF
			c[i] = nib * 17
		}
	} else {
		for i := range len(s) / 2 {
			c[i] = (v >> (8 * (len(s)/2 - 1 - i))) & 0xFF
		}
	}
	return RGBA{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
		A: float64(c[3]) / 255,
	}
}

// FromColor converts a standard library color.
func FromColor(c color.Color) RGBA {
	return fromNRGBA64(color.NRGBA64Model.Convert(c).(color.NRGBA64))
}

func fromNRGBA64(n color.NRGBA64) RGBA {
	return RGBA{
		R: float64(n.R) / 0xFFFF,
		G: float64(n.G) / 0xFFFF,
		B: float64(n.B) / 0xFFFF,
		A: float64(n.A) / 0xFFFF,
	}
}

// Color converts to color.NRGBA.
func (c RGBA) Color() color.Color {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// Premultiply returns c with the color channels scaled by alpha.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Unpremultiply reverses Premultiply. Fully transparent colors become zero.
func (c RGBA) Unpremultiply() RGBA {
	if c.A == 0 {
		return Transparent
	}
	return RGBA{R: c.R / c.A, G: c.G / c.A, B: c.B / c.A, A: c.A}
}

// pixel returns the premultiplied 8-bit packed form used by commands.
func (c RGBA) pixel() pixel.P32 {
	p := c.Premultiply()
	return pixel.P32(uint32(to8(p.A))<<24 | uint32(to8(p.R))<<16 | uint32(to8(p.G))<<8 | uint32(to8(p.B)))
}

func to8(x float64) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(math.Round(x * 255))
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Cyan        = RGB(0, 1, 1)
	Magenta     = RGB(1, 0, 1)
	Transparent = RGBAf(0, 0, 0, 0)
)
