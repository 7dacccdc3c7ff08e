package fractal

import (
	"image"
	stdcolor "image/color"
	"time"

	"github.com/Superangers/fractal-explorer/internal/color"
)

// Image is the result of a render: the filled pixel buffer tagged with the
// color space its triples are in.
//
// Image implements image.Image. HSV-tagged pixels are converted to RGB on
// access; the stored buffer is never rewritten.
type Image struct {
	buf     *PixelBuffer
	space   ColorSpace
	kind    Kind
	config  RenderConfig
	elapsed time.Duration
}

// NewImage wraps an existing buffer. It is intended for callers that fill
// buffers themselves and want the same conversions a render result gets.
func NewImage(buf *PixelBuffer, space ColorSpace) *Image {
	return &Image{buf: buf, space: space}
}

// Buffer returns the raw triples. The caller owns the buffer.
func (m *Image) Buffer() *PixelBuffer {
	return m.buf
}

// ColorSpace returns the color space of the stored triples.
func (m *Image) ColorSpace() ColorSpace {
	return m.space
}

// Kind returns the fractal that was rendered.
func (m *Image) Kind() Kind {
	return m.kind
}

// Config returns the configuration the image was rendered from.
func (m *Image) Config() RenderConfig {
	return m.config.snapshot()
}

// Elapsed returns the wall time spent rasterizing.
func (m *Image) Elapsed() time.Duration {
	return m.elapsed
}

// RGBAt returns the pixel at (x, y) converted to 8-bit RGB.
func (m *Image) RGBAt(x, y int) (r, g, b uint8) {
	t := m.buf.At(x, y)
	if m.space == HSV {
		return color.HSV8ToRGB(t[0], t[1], t[2])
	}
	return t[0], t[1], t[2]
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) stdcolor.Color {
	r, g, b := m.RGBAt(x, y)
	return stdcolor.RGBA{R: r, G: g, B: b, A: 255}
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.buf.Width(), m.buf.Height())
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() stdcolor.Model {
	return stdcolor.RGBAModel
}

// ToRGBA converts the image to an opaque *image.RGBA.
func (m *Image) ToRGBA() *image.RGBA {
	w, h := m.buf.Width(), m.buf.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		src := m.buf.Row(y)
		dst := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := range w {
			s := src[x*3 : x*3+3]
			r, g, b := s[0], s[1], s[2]
			if m.space == HSV {
				r, g, b = color.HSV8ToRGB(r, g, b)
			}
			d := dst[x*4 : x*4+4]
			d[0], d[1], d[2], d[3] = r, g, b, 255
		}
	}
	return img
}
