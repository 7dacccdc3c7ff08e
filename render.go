package fractal

import (
	"context"
	"sync"
	"time"

	"github.com/Superangers/fractal-explorer/internal/parallel"
)

// bandsPerWorker is how many row bands each worker gets by default. More
// bands than workers lets idle workers steal the tail of slow bands.
const bandsPerWorker = 4

// RendererOption configures a Renderer during creation.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	workers    int
	bandHeight int
}

// WithWorkers sets the number of worker goroutines.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithBandHeight fixes the number of rows per job. Zero or negative splits
// each image into bandsPerWorker bands per worker instead.
func WithBandHeight(rows int) RendererOption {
	return func(o *rendererOptions) {
		o.bandHeight = rows
	}
}

// Renderer rasterizes RenderConfigs on a fixed pool of worker goroutines.
//
// A Renderer is safe for concurrent use. Close releases the workers; a
// closed Renderer still renders, sequentially on the calling goroutine.
type Renderer struct {
	pool       *parallel.WorkerPool
	bandHeight int
}

// NewRenderer starts a Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{
		pool:       parallel.NewWorkerPool(o.workers),
		bandHeight: o.bandHeight,
	}
}

// Workers returns the number of worker goroutines.
func (r *Renderer) Workers() int {
	return r.pool.Workers()
}

// Close stops the worker goroutines after in-flight renders finish.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Render rasterizes cfg. See RenderContext.
func (r *Renderer) Render(cfg RenderConfig) (*Image, error) {
	return r.RenderContext(context.Background(), cfg)
}

// RenderContext validates cfg and rasterizes it into a new Image.
//
// Validation happens before any pixel work. On any error, including
// cancellation of ctx, the returned Image is nil; a partially filled buffer
// is never returned.
func (r *Renderer) RenderContext(ctx context.Context, cfg RenderConfig) (*Image, error) {
	cfg = cfg.snapshot()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &registry[cfg.Kind]
	return r.renderWith(ctx, cfg, d.Strategy(cfg.constant()))
}

// renderWith rasterizes a validated cfg with the given strategy.
func (r *Renderer) renderWith(ctx context.Context, cfg RenderConfig, strategy IterationStrategy) (*Image, error) {
	d := &registry[cfg.Kind]
	vp := cfg.Viewport
	maxIter := cfg.MaxIterations
	shade := d.Shade

	var bands []parallel.Band
	if r.bandHeight > 0 {
		bands = parallel.BandsOfHeight(vp.Height, r.bandHeight)
	} else {
		bands = parallel.Bands(vp.Height, r.pool.Workers()*bandsPerWorker)
	}

	start := time.Now()
	buf := NewPixelBuffer(vp.Width, vp.Height)
	jobs := make([]func(), len(bands))
	for i, band := range bands {
		jobs[i] = func() {
			for y := band.Y0; y < band.Y1; y++ {
				if ctx.Err() != nil {
					return
				}
				rasterRow(buf.Row(y), vp, y, strategy, shade, maxIter)
			}
		}
	}
	r.pool.ExecuteAll(jobs)

	if err := ctx.Err(); err != nil {
		Logger().Debug("render cancelled", "kind", d.Name, "err", err)
		return nil, err
	}

	elapsed := time.Since(start)
	Logger().Debug("render complete",
		"kind", d.Name,
		"width", vp.Width,
		"height", vp.Height,
		"maxIter", maxIter,
		"bands", len(bands),
		"bandRows", bands[0].Rows(),
		"workers", r.pool.Workers(),
		"elapsed", elapsed,
	)

	return &Image{
		buf:     buf,
		space:   d.ColorSpace,
		kind:    cfg.Kind,
		config:  cfg,
		elapsed: elapsed,
	}, nil
}

// rasterRow fills one row of channel bytes.
func rasterRow(row []uint8, vp Viewport, y int, s IterationStrategy, shade ShadeFunc, maxIter uint32) {
	ci := vp.mapY(y)
	for x := 0; x < vp.Width; x++ {
		t := shade(s.Evaluate(complex(vp.mapX(x), ci), maxIter), maxIter)
		copy(row[x*3:x*3+3], t[:])
	}
}

var (
	defaultRendererOnce sync.Once
	defaultRenderer     *Renderer
)

// Render rasterizes cfg on a shared Renderer using GOMAXPROCS workers.
func Render(cfg RenderConfig) (*Image, error) {
	return RenderContext(context.Background(), cfg)
}

// RenderContext is Render with cancellation.
func RenderContext(ctx context.Context, cfg RenderConfig) (*Image, error) {
	defaultRendererOnce.Do(func() {
		defaultRenderer = NewRenderer()
	})
	return defaultRenderer.RenderContext(ctx, cfg)
}
