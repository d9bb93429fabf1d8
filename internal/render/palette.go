package render

import (
	"fmt"
	"math"

	"github.com/san-kum/soup/internal/dynamo"
)

// RGB is a linear color with channels in [0, 1].
type RGB [3]float64

// Palette maps species index to color.
type Palette []RGB

// DefaultPalette is the red, green, blue soup.
func DefaultPalette() Palette {
	return Palette{
		{1, 0.2, 0.2},
		{0.2, 1, 0.2},
		{0.2, 0.2, 1},
	}
}

// HSVPalette spreads n hues evenly around the color wheel.
func HSVPalette(n int) Palette {
	p := make(Palette, n)
	for i := range p {
		r, g, b := HSVToRGB(float64(i)*360/float64(n), 0.8, 1)
		p[i] = RGB{r, g, b}
	}
	return p
}

// PaletteFor returns the default palette when it covers n species and an HSV
// spread otherwise.
func PaletteFor(n int) Palette {
	if n <= 3 {
		return DefaultPalette()[:n]
	}
	return HSVPalette(n)
}

func HSVToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// Validate checks that p has a color for each of s species and every channel
// lies in [0, 1]. Extra colors are allowed.
func (p Palette) Validate(s int) error {
	if len(p) < s {
		return fmt.Errorf("%w: palette has %d colors, need %d", dynamo.ErrDimensionMismatch, len(p), s)
	}
	for i, c := range p {
		for _, ch := range c {
			if !(ch >= 0 && ch <= 1) {
				return &dynamo.ConfigError{Field: "colors", Message: fmt.Sprintf("color %d channel %v outside [0, 1]", i, ch)}
			}
		}
	}
	return nil
}

// Bytes converts a color to 8-bit channels.
func (c RGB) Bytes() (uint8, uint8, uint8) {
	return toByte(c[0]), toByte(c[1]), toByte(c[2])
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	r, g, b := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
