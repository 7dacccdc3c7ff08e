// Package fractal renders escape-time fractals into pixel buffers.
//
// # Overview
//
// A render takes an immutable RenderConfig (viewport, iteration cap, fractal
// kind and, for Julia sets, a constant) and produces an Image: a row-major
// buffer of three-channel 8-bit pixels tagged with the color space the
// channels are in.
//
// # Quick Start
//
//	cfg := fractal.NewConfig(fractal.Mandelbrot,
//	    fractal.WithResolution(800, 800),
//	    fractal.WithMaxIterations(200),
//	)
//	img, err := fractal.Render(cfg)
//	if err != nil {
//	    return err
//	}
//	png.Encode(w, img) // Image implements image.Image
//
// # Fractals
//
// The registry holds three fractals, listed by Names:
//   - "mandelbrot": z = z² + c, z₀ = 0, c = pixel; HSV hue ramp
//   - "burningship": as Mandelbrot with the imaginary update folded to |2·zr·zi|; RGB ember ramp
//   - "julia set": z = z² + C, z₀ = pixel, C = Julia constant; HSV hue ramp
//
// Points that stay bounded up to the iteration cap are black.
//
// # Coordinate System
//
// Pixel (px, py) maps to the plane point
//
//	x = ((px - w/4) / w) · scale + center.x
//	y = ((py - h/4) / h) · scale + center.y
//
// so the center sits a quarter of the way into the image, not in its
// middle, and y grows downwards.
//
// # Concurrency
//
// A Renderer splits the image into disjoint row bands and runs them on a
// fixed worker pool. Renders are deterministic: the same RenderConfig
// always yields the same bytes, whatever the number of workers.
package fractal
