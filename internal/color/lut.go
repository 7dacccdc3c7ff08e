package color

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// hueLUT holds the RGB value of every 8-bit hue at full saturation and
// brightness. The Mandelbrot and Julia shaders only ever emit triples of
// that form, so almost every HSV pixel resolves to a table lookup.
var hueLUT [256][3]uint8

func init() {
	for i := range hueLUT {
		r, g, b := colorful.Hsv(hueDegrees(uint8(i)), 1, 1).Clamped().RGB255()
		hueLUT[i] = [3]uint8{r, g, b}
	}
}

// HSV8ToRGB interprets an 8-bit HSV triple and returns 8-bit RGB.
// The hue byte spans the full circle (255 maps to 360°); saturation and
// value bytes are scaled to [0,1].
func HSV8ToRGB(h, s, v uint8) (r, g, b uint8) {
	if s == 255 && v == 255 {
		c := hueLUT[h]
		return c[0], c[1], c[2]
	}
	return colorful.Hsv(hueDegrees(h), float64(s)/255, float64(v)/255).Clamped().RGB255()
}

// hueDegrees maps a hue byte onto [0,360). 255 wraps to 0 because
// go-colorful leaves a hue of exactly 360° outside every sector.
func hueDegrees(h uint8) float64 {
	return math.Mod(float64(h)/255*360, 360)
}
