package fractal

// PixelBuffer is a width × height grid of three-channel 8-bit pixels,
// stored row-major with no padding between rows.
type PixelBuffer struct {
	width  int
	height int
	data   []uint8 // 3 bytes per pixel
}

// NewPixelBuffer returns a zeroed buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*3),
	}
}

// Width returns the width in pixels.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Stride returns the distance in bytes between two rows.
func (b *PixelBuffer) Stride() int {
	return b.width * 3
}

// Data returns the raw channel bytes.
func (b *PixelBuffer) Data() []uint8 {
	return b.data
}

// Row returns the channel bytes of row y.
func (b *PixelBuffer) Row(y int) []uint8 {
	s := b.Stride()
	return b.data[y*s : (y+1)*s : (y+1)*s]
}

// At returns the triple at (x, y), or the zero triple when out of range.
func (b *PixelBuffer) At(x, y int) Triple {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Triple{}
	}
	i := (y*b.width + x) * 3
	return Triple{b.data[i+0], b.data[i+1], b.data[i+2]}
}
