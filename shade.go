package fractal

import (
	"fmt"
	"math"

	"github.com/Superangers/fractal-explorer/internal/color"
)

// ColorSpace tags how the three channels of a pixel are to be read.
type ColorSpace uint8

const (
	// HSV channels hold hue, saturation and value, each 0-255. The hue byte
	// spans the full circle.
	HSV ColorSpace = iota

	// RGB channels hold red, green and blue.
	RGB
)

// String returns "HSV" or "RGB".
func (cs ColorSpace) String() string {
	switch cs {
	case HSV:
		return "HSV"
	case RGB:
		return "RGB"
	default:
		return fmt.Sprintf("ColorSpace(%d)", uint8(cs))
	}
}

// Triple is one pixel as stored in a PixelBuffer, in the buffer's color space.
type Triple [3]uint8

// black is emitted for every point that stays bounded, in both color spaces.
var black Triple

// ShadeFunc maps an iteration result to a pixel triple.
type ShadeFunc func(r IterationResult, maxIter uint32) Triple

// ShadeHueRamp is the Mandelbrot and Julia coloring: the escape iteration
// scaled to a hue byte, with saturation and value fixed at 255.
func ShadeHueRamp(r IterationResult, maxIter uint32) Triple {
	if atCap(r, maxIter) {
		return black
	}
	return Triple{uint8(255 * uint64(r.Iterations) / uint64(maxIter)), 255, 255}
}

// ShadeEmber is the Burning Ship coloring: t = i/maxIter·255 emitted as
// RGB (√t·√255, t, t), each rounded.
func ShadeEmber(r IterationResult, maxIter uint32) Triple {
	if atCap(r, maxIter) {
		return black
	}
	t := float64(r.Iterations) / float64(maxIter) * 255
	red := math.Round(math.Sqrt(t) * math.Sqrt(255))
	c := clampByte(math.Round(t))
	return Triple{clampByte(red), c, c}
}

// atCap reports whether r is colored as bounded: it did not escape, or its
// count reached the cap. With a zero cap every point is black, even one
// that starts outside the escape radius.
func atCap(r IterationResult, maxIter uint32) bool {
	return !r.Escaped || r.Iterations >= maxIter
}

// HSVToRGB converts h, s and v in [0,1] to 8-bit RGB with the six-sector
// hexagonal model. The default pipeline does not use it; it is provided for
// callers that want to convert HSV buffers themselves.
func HSVToRGB(h, s, v float64) (r, g, b uint8) {
	return color.HSVToRGB(h, s, v)
}

func clampByte(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}
