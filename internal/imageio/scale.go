package imageio

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Quality selects the resampling kernel used by Scale.
type Quality int

const (
	// Fast uses nearest-neighbor sampling. Useful for live previews.
	Fast Quality = iota
	// Smooth uses bilinear sampling.
	Smooth
	// Best uses Catmull-Rom. Slow on large images.
	Best
)

func (q Quality) scaler() xdraw.Scaler {
	switch q {
	case Smooth:
		return xdraw.ApproxBiLinear
	case Best:
		return xdraw.CatmullRom
	default:
		return xdraw.NearestNeighbor
	}
}

// Scale resamples src into a new width×height image.
func Scale(src image.Image, width, height int, q Quality) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	q.scaler().Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// Fit scales src down so that neither side exceeds maxSide, keeping the
// aspect ratio. Images already small enough are copied unchanged.
func Fit(src image.Image, maxSide int, q Quality) (*image.RGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || b.Empty() {
		return nil, ErrEmptyImage
	}
	if w > maxSide || h > maxSide {
		if w >= h {
			h = max(1, h*maxSide/w)
			w = maxSide
		} else {
			w = max(1, w*maxSide/h)
			h = maxSide
		}
	}
	return Scale(src, w, h, q)
}
