// Package view holds the interactive explorer state: the current render
// configuration, the navigation actions that change it, and the most
// recently rendered frame.
//
// It knows nothing about windows or keyboards. The fractalview command maps
// keys to actions and blits Frame to the screen.
package view

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	fractal "github.com/Superangers/fractal-explorer"
	"github.com/Superangers/fractal-explorer/internal/cache"
)

// Action is one navigation step.
type Action uint8

const (
	None Action = iota
	PanUp
	PanDown
	PanLeft
	PanRight
	ZoomIn
	ZoomOut
	MoreIterations
	FewerIterations
	NextFractal
	Reset
)

var actionNames = [...]string{
	None:            "none",
	PanUp:           "pan up",
	PanDown:         "pan down",
	PanLeft:         "pan left",
	PanRight:        "pan right",
	ZoomIn:          "zoom in",
	ZoomOut:         "zoom out",
	MoreIterations:  "more iterations",
	FewerIterations: "fewer iterations",
	NextFractal:     "next fractal",
	Reset:           "reset",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", a)
}

const (
	// zoomStep is the scale factor of one ZoomIn. ZoomOut divides by it.
	zoomStep = 0.8

	// iterationStep is added or removed by MoreIterations and FewerIterations.
	iterationStep = 20

	// DefaultCachedFrames is how many recent frames an Explorer keeps.
	DefaultCachedFrames = 8

	// DraftFactor divides the resolution of frames rendered while moving.
	DraftFactor = 4
)

// frameKey identifies a render by value. The Julia constant is stored
// dereferenced so equal configurations share a key.
type frameKey struct {
	vp       fractal.Viewport
	maxIter  uint32
	kind     fractal.Kind
	constant complex128
}

func keyOf(cfg fractal.RenderConfig) frameKey {
	k := frameKey{vp: cfg.Viewport, maxIter: cfg.MaxIterations, kind: cfg.Kind}
	if cfg.JuliaConstant != nil && cfg.Kind == fractal.Julia {
		k.constant = *cfg.JuliaConstant
	}
	return k
}

type cachedFrame struct {
	img  *fractal.Image
	rgba *image.RGBA
}

// Explorer tracks the configuration being explored and caches the frame
// rendered for it. It is not safe for concurrent use.
type Explorer struct {
	r       *fractal.Renderer
	initial fractal.RenderConfig
	cfg     fractal.RenderConfig

	frame  *image.RGBA
	img    *fractal.Image
	dirty  bool
	moving bool
	frames *cache.LRU[frameKey, cachedFrame]
}

// NewExplorer starts exploring at cfg using r for renders.
func NewExplorer(r *fractal.Renderer, cfg fractal.RenderConfig) (*Explorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var c complex128
	if cfg.JuliaConstant != nil {
		c = *cfg.JuliaConstant
	}
	cfg.JuliaConstant = &c

	frames := cache.New[frameKey, cachedFrame](DefaultCachedFrames)
	frames.OnEvict(func(k frameKey, _ cachedFrame) {
		fractal.Logger().Debug("view: frame evicted",
			"fractal", k.kind,
			"center", k.vp.Center,
			"scale", k.vp.Scale,
			"width", k.vp.Width)
	})
	return &Explorer{
		r:       r,
		initial: cfg,
		cfg:     cfg,
		dirty:   true,
		frames:  frames,
	}, nil
}

// Config returns the current configuration.
func (e *Explorer) Config() fractal.RenderConfig {
	cfg := e.cfg
	if cfg.JuliaConstant != nil {
		c := *cfg.JuliaConstant
		cfg.JuliaConstant = &c
	}
	return cfg
}

// Dirty reports whether the configuration changed since the last Frame.
func (e *Explorer) Dirty() bool {
	return e.dirty
}

// SetMoving switches draft rendering on or off. While moving, Frame renders
// at 1/DraftFactor of the resolution so that held navigation keys stay
// responsive. The first Frame after moving stops renders at full size.
func (e *Explorer) SetMoving(moving bool) {
	if e.moving == moving {
		return
	}
	e.moving = moving
	e.dirty = true
}

// Moving reports whether draft rendering is on.
func (e *Explorer) Moving() bool {
	return e.moving
}

// renderConfig is the configuration Frame renders: the current one, shrunk
// while moving.
func (e *Explorer) renderConfig() fractal.RenderConfig {
	cfg := e.cfg
	if e.moving {
		cfg.Viewport.Width = max(1, cfg.Viewport.Width/DraftFactor)
		cfg.Viewport.Height = max(1, cfg.Viewport.Height/DraftFactor)
	}
	return cfg
}

// Invalidate forces the next Frame to render again rather than reuse a
// cached frame.
func (e *Explorer) Invalidate() {
	e.frames.Delete(keyOf(e.renderConfig()))
	e.dirty = true
}

// CacheStats reports how often frames were served from the cache.
func (e *Explorer) CacheStats() cache.Stats {
	return e.frames.Stats()
}

// Apply performs a and reports whether the configuration changed.
// A change that would make the configuration invalid, such as zooming
// until the scale underflows, is ignored.
func (e *Explorer) Apply(a Action) bool {
	next := e.cfg
	switch a {
	case PanUp:
		next.Viewport = next.Viewport.Move(fractal.Up)
	case PanDown:
		next.Viewport = next.Viewport.Move(fractal.Down)
	case PanLeft:
		next.Viewport = next.Viewport.Move(fractal.Left)
	case PanRight:
		next.Viewport = next.Viewport.Move(fractal.Right)
	case ZoomIn:
		next.Viewport = next.Viewport.Zoom(zoomStep)
	case ZoomOut:
		next.Viewport = next.Viewport.Zoom(1 / zoomStep)
	case MoreIterations:
		if next.MaxIterations > ^uint32(0)-iterationStep {
			return false
		}
		next.MaxIterations += iterationStep
	case FewerIterations:
		next.MaxIterations -= min(next.MaxIterations, iterationStep)
	case NextFractal:
		kinds := fractal.Kinds()
		next.Kind = kinds[(int(next.Kind)+1)%len(kinds)]
		if d, err := fractal.Describe(next.Kind); err == nil {
			next.Viewport.Center = d.Center
		}
		next.Viewport.Scale = e.initial.Viewport.Scale
	case Reset:
		next = e.initial
		next.Viewport.Width = e.cfg.Viewport.Width
		next.Viewport.Height = e.cfg.Viewport.Height
	default:
		return false
	}

	if next == e.cfg {
		return false
	}
	if err := next.Validate(); err != nil {
		fractal.Logger().Debug("view: action rejected", "action", a, "err", err)
		return false
	}
	e.cfg = next
	e.dirty = true
	return true
}

// Resize changes the render resolution, for example when the window is
// resized. Non-positive sizes are ignored.
func (e *Explorer) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	vp := e.cfg.Viewport
	if vp.Width == width && vp.Height == height {
		return false
	}
	e.cfg.Viewport.Width = width
	e.cfg.Viewport.Height = height
	e.dirty = true
	return true
}

// Frame returns the frame for the current configuration, rendering it
// first if the configuration changed and no recent frame matches. On error
// the previous frame is kept and returned alongside the error.
//
// While moving, the frame is a draft smaller than the configured
// resolution; callers scale it to fit.
func (e *Explorer) Frame(ctx context.Context) (*image.RGBA, error) {
	if !e.dirty && e.frame != nil {
		return e.frame, nil
	}

	cfg := e.renderConfig()
	key := keyOf(cfg)
	if f, ok := e.frames.Get(key); ok {
		e.img, e.frame = f.img, f.rgba
		e.dirty = false
		fractal.Logger().Debug("view: frame from cache", "fractal", cfg.Kind)
		return e.frame, nil
	}

	img, err := e.r.RenderContext(ctx, cfg)
	if err != nil {
		return e.frame, err
	}
	e.img = img
	e.frame = img.ToRGBA()
	e.dirty = false
	e.frames.Put(key, cachedFrame{img: img, rgba: e.frame})

	level := slog.LevelInfo
	if e.moving {
		level = slog.LevelDebug
	}
	fractal.Logger().Log(ctx, level, "view: frame rendered",
		"fractal", cfg.Kind,
		"center", cfg.Viewport.Center,
		"scale", cfg.Viewport.Scale,
		"iterations", cfg.MaxIterations,
		"draft", e.moving,
		"elapsed", img.Elapsed())
	return e.frame, nil
}

// Image returns the last rendered image, or nil before the first Frame.
func (e *Explorer) Image() *fractal.Image {
	return e.img
}
