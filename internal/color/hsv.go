// Package color converts between the HSV triples produced by the fractal
// shaders and 8-bit RGB.
package color

import "math"

// HSVToRGB converts an HSV color to 8-bit RGB using the six-sector
// hexagonal model. h, s and v are in [0,1]; h wraps, s and v are clamped.
func HSVToRGB(h, s, v float64) (r, g, b uint8) {
	s = clamp01(s)
	v = clamp01(v)
	if s == 0 {
		c := toByte(v)
		return c, c, c
	}

	h = h - math.Floor(h)
	sector := int(h * 6)
	f := h*6 - float64(sector)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch sector % 6 {
	case 0:
		return toByte(v), toByte(t), toByte(p)
	case 1:
		return toByte(q), toByte(v), toByte(p)
	case 2:
		return toByte(p), toByte(v), toByte(t)
	case 3:
		return toByte(p), toByte(q), toByte(v)
	case 4:
		return toByte(t), toByte(p), toByte(v)
	default:
		return toByte(v), toByte(p), toByte(q)
	}
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// toByte maps [0,1] to [0,255] with rounding.
func toByte(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}
