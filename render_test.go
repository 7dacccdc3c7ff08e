package fractal

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
)

// =============================================================================
// Determinism
// =============================================================================

func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer(WithWorkers(4))
	defer r.Close()

	for _, cfg := range []RenderConfig{
		NewConfig(Mandelbrot, WithResolution(97, 61)),
		NewConfig(BurningShip, WithResolution(64, 64), WithMaxIterations(50)),
		NewConfig(Julia, WithResolution(50, 80), WithJuliaConstant(complex(-0.8, 0.156))),
	} {
		t.Run(cfg.Kind.String(), func(t *testing.T) {
			a, err := r.Render(cfg)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			b, err := r.Render(cfg)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !bytes.Equal(a.Buffer().Data(), b.Buffer().Data()) {
				t.Error("two renders of the same config differ")
			}
		})
	}
}

func TestRenderIndependentOfWorkers(t *testing.T) {
	cfg := NewConfig(Julia, WithResolution(83, 47), WithJuliaConstant(complex(0.285, 0.01)), WithMaxIterations(120))

	serial := NewRenderer(WithWorkers(1), WithBandHeight(1000))
	defer serial.Close()
	want, err := serial.Render(cfg)
	if err != nil {
		t.Fatalf("serial Render: %v", err)
	}

	for _, opts := range [][]RendererOption{
		{WithWorkers(2)},
		{WithWorkers(8)},
		{WithWorkers(3), WithBandHeight(1)},
		{WithWorkers(5), WithBandHeight(7)},
	} {
		r := NewRenderer(opts...)
		got, err := r.Render(cfg)
		r.Close()
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if !bytes.Equal(got.Buffer().Data(), want.Buffer().Data()) {
			t.Errorf("render with %d workers differs from the serial render", r.Workers())
		}
	}
}

// TestRenderMatchesPerPixelEvaluation rebuilds the image pixel by pixel
// from the mapper, strategy and shader.
func TestRenderMatchesPerPixelEvaluation(t *testing.T) {
	cfg := NewConfig(BurningShip, WithResolution(40, 30), WithScale(3.5), WithMaxIterations(64))
	img, err := Render(cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	d, _ := Describe(cfg.Kind)
	s := d.Strategy(0)
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			want := d.Shade(s.Evaluate(cfg.Viewport.Map(x, y), 64), 64)
			if got := img.Buffer().At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// =============================================================================
// Known pixels
// =============================================================================

func TestRenderKnownPixels(t *testing.T) {
	// Center 0, width 4: pixel (1,1) maps to 0 and pixel (3,3) to 4+4i.
	cfg := NewConfig(Mandelbrot, WithCenter(0), WithScale(8), WithResolution(4, 4), WithMaxIterations(80))
	img, err := Render(cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := img.Buffer().At(1, 1); got != (Triple{0, 0, 0}) {
		t.Errorf("pixel at origin = %v, want black", got)
	}
	if got := img.Buffer().At(3, 3); got != (Triple{3, 255, 255}) {
		t.Errorf("pixel at 4+4i = %v, want hue 3 (escaped after one step)", got)
	}
	if img.ColorSpace() != HSV || img.Kind() != Mandelbrot {
		t.Errorf("image tagged %v/%v, want HSV/mandelbrot", img.ColorSpace(), img.Kind())
	}
}

func TestRenderZeroIterations(t *testing.T) {
	// A wide view puts most starting points outside the escape radius, which
	// matters for Julia where z₀ is the pixel itself.
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			cfg := NewConfig(kind, WithResolution(16, 16), WithMaxIterations(0), WithScale(20))
			img, err := Render(cfg)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for i, v := range img.Buffer().Data() {
				if v != 0 {
					t.Fatalf("byte %d = %d; a zero cap must leave every pixel black", i, v)
				}
			}
		})
	}
}

func TestRenderBufferShape(t *testing.T) {
	img, err := Render(NewConfig(BurningShip, WithResolution(13, 7)))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	buf := img.Buffer()
	if buf.Width() != 13 || buf.Height() != 7 || len(buf.Data()) != 13*7*3 {
		t.Errorf("buffer %dx%d with %d bytes", buf.Width(), buf.Height(), len(buf.Data()))
	}
	if img.ColorSpace() != RGB {
		t.Errorf("burningship tagged %v, want RGB", img.ColorSpace())
	}
	if img.Elapsed() <= 0 {
		t.Errorf("Elapsed() = %v, want > 0", img.Elapsed())
	}
}

// =============================================================================
// Errors
// =============================================================================

func TestRenderRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  RenderConfig
		want error
	}{
		{"zero width", NewConfig(Mandelbrot, WithResolution(0, 5)), ErrInvalidViewport},
		{"zero scale", NewConfig(Mandelbrot, WithScale(0)), ErrInvalidViewport},
		{"missing constant", RenderConfig{Kind: Julia, Viewport: Viewport{Scale: 1, Width: 2, Height: 2}}, ErrMissingFractalParameter},
		{"unknown kind", RenderConfig{Kind: numKinds, Viewport: Viewport{Scale: 1, Width: 2, Height: 2}}, ErrUnknownFractalKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Render(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Render() error = %v, want %v", err, tt.want)
			}
			if img != nil {
				t.Error("Render() returned an image alongside an error")
			}
		})
	}
}

func TestRenderCancelled(t *testing.T) {
	r := NewRenderer(WithWorkers(2))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, err := r.RenderContext(ctx, NewConfig(Mandelbrot, WithResolution(64, 64)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderContext() error = %v, want context.Canceled", err)
	}
	if img != nil {
		t.Error("cancelled render returned an image")
	}
}

func TestRenderCancelledMidway(t *testing.T) {
	r := NewRenderer(WithWorkers(1), WithBandHeight(1))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The strategy cancels the context from inside the first row.
	cfg := NewConfig(Mandelbrot, WithResolution(32, 32), WithMaxIterations(10))
	img, err := r.renderWith(ctx, cfg, cancellingStrategy{cancel: cancel})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if img != nil {
		t.Error("cancelled render returned a partial image")
	}
}

type cancellingStrategy struct {
	cancel context.CancelFunc
}

func (s cancellingStrategy) Evaluate(complex128, uint32) IterationResult {
	s.cancel()
	return IterationResult{}
}

// =============================================================================
// Lifecycle and concurrency
// =============================================================================

func TestRendererClosedStillRenders(t *testing.T) {
	r := NewRenderer(WithWorkers(2))
	r.Close()

	img, err := r.Render(NewConfig(Mandelbrot, WithResolution(8, 8)))
	if err != nil || img == nil {
		t.Fatalf("Render on closed renderer = %v, %v", img, err)
	}
}

func TestRendererConcurrent(t *testing.T) {
	r := NewRenderer(WithWorkers(4))
	defer r.Close()

	cfg := NewConfig(Julia, WithResolution(32, 32), WithJuliaConstant(complex(-0.4, 0.6)))
	want, err := r.Render(cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Render(cfg)
			if err != nil {
				t.Errorf("Render: %v", err)
				return
			}
			if !bytes.Equal(got.Buffer().Data(), want.Buffer().Data()) {
				t.Error("concurrent render differs")
			}
		}()
	}
	wg.Wait()
}

func TestRenderConfigNotRetained(t *testing.T) {
	c := complex(-0.4, 0.6)
	cfg := NewConfig(Julia, WithResolution(8, 8))
	cfg.JuliaConstant = &c

	img, err := Render(cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	c = 0
	if got := *img.Config().JuliaConstant; got != complex(-0.4, 0.6) {
		t.Errorf("image config constant = %v, want the value at render time", got)
	}
}
