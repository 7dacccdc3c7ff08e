package fractal

import (
	"fmt"
	"testing"
)

// BenchmarkRender benchmarks full renders of each fractal at the default
// view.
func BenchmarkRender(b *testing.B) {
	sizes := []struct {
		name          string
		width, height int
	}{
		{"256x256", 256, 256},
		{"1000x1000", 1000, 1000},
	}

	r := NewRenderer()
	defer r.Close()

	for _, kind := range Kinds() {
		for _, size := range sizes {
			b.Run(kind.String()+"/"+size.name, func(b *testing.B) {
				cfg := NewConfig(kind, WithResolution(size.width, size.height))
				b.ReportAllocs()
				b.SetBytes(int64(size.width * size.height * 3))
				for b.Loop() {
					if _, err := r.Render(cfg); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkRender_Workers shows how a 512x512 Mandelbrot scales with the
// pool size.
func BenchmarkRender_Workers(b *testing.B) {
	cfg := NewConfig(Mandelbrot, WithResolution(512, 512), WithMaxIterations(200))
	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			r := NewRenderer(WithWorkers(workers))
			defer r.Close()
			for b.Loop() {
				if _, err := r.Render(cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEvaluate benchmarks a single bounded point, which runs the full
// iteration cap.
func BenchmarkEvaluate(b *testing.B) {
	strategies := []struct {
		name string
		s    IterationStrategy
	}{
		{"mandelbrot", MandelbrotStrategy{}},
		{"burningship", BurningShipStrategy{}},
		{"julia", JuliaStrategy{C: complex(-0.4, 0.6)}},
	}
	for _, st := range strategies {
		b.Run(st.name, func(b *testing.B) {
			for b.Loop() {
				_ = st.s.Evaluate(0, 1000)
			}
		})
	}
}

// BenchmarkImage_ToRGBA benchmarks the HSV-to-RGB adapter.
func BenchmarkImage_ToRGBA(b *testing.B) {
	img, err := Render(NewConfig(Mandelbrot, WithResolution(1000, 1000)))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = img.ToRGBA()
	}
}
