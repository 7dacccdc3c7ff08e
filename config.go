package fractal

import (
	"fmt"
	"math/cmplx"
)

// Defaults of a freshly started explorer.
const (
	DefaultScale         = 5.4
	DefaultWidth         = 1000
	DefaultHeight        = 1000
	DefaultMaxIterations = 80
)

// RenderConfig is everything one render needs. It is a value: the renderer
// reads it but never retains or modifies it.
type RenderConfig struct {
	Viewport Viewport

	// MaxIterations caps the recurrence per pixel. Zero is allowed: every
	// point inside the escape radius is then colored black.
	MaxIterations uint32

	Kind Kind

	// JuliaConstant is required when Kind is Julia and ignored otherwise.
	JuliaConstant *complex128
}

// ConfigOption adjusts a RenderConfig built by NewConfig.
//
// Example:
//
//	cfg := fractal.NewConfig(fractal.Julia,
//	    fractal.WithJuliaConstant(complex(-0.8, 0.156)),
//	    fractal.WithMaxIterations(300),
//	)
type ConfigOption func(*RenderConfig)

// WithCenter sets the viewport center.
func WithCenter(c complex128) ConfigOption {
	return func(cfg *RenderConfig) {
		cfg.Viewport.Center = c
	}
}

// WithScale sets the viewport scale.
func WithScale(s float64) ConfigOption {
	return func(cfg *RenderConfig) {
		cfg.Viewport.Scale = s
	}
}

// WithResolution sets the pixel resolution.
func WithResolution(width, height int) ConfigOption {
	return func(cfg *RenderConfig) {
		cfg.Viewport.Width = width
		cfg.Viewport.Height = height
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n uint32) ConfigOption {
	return func(cfg *RenderConfig) {
		cfg.MaxIterations = n
	}
}

// WithJuliaConstant sets the Julia constant.
func WithJuliaConstant(c complex128) ConfigOption {
	return func(cfg *RenderConfig) {
		cfg.JuliaConstant = &c
	}
}

// DefaultConfig returns the start configuration for Mandelbrot.
// The Julia constant is preset to 0 so switching Kind to Julia yields a
// valid configuration.
func DefaultConfig() RenderConfig {
	var zero complex128
	return RenderConfig{
		Viewport: Viewport{
			Center: registry[Mandelbrot].Center,
			Scale:  DefaultScale,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		MaxIterations: DefaultMaxIterations,
		Kind:          Mandelbrot,
		JuliaConstant: &zero,
	}
}

// NewConfig returns the defaults for kind, centered on the kind's start
// position, with opts applied in order.
func NewConfig(kind Kind, opts ...ConfigOption) RenderConfig {
	cfg := DefaultConfig()
	cfg.Kind = kind
	if d, ok := descriptorOf(kind); ok {
		cfg.Viewport.Center = d.Center
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Validate checks cfg in the order a render would trip over it: the kind,
// the viewport, then kind-specific parameters.
func (cfg RenderConfig) Validate() error {
	d, err := Describe(cfg.Kind)
	if err != nil {
		return err
	}
	if err := cfg.Viewport.Validate(); err != nil {
		return err
	}
	if d.NeedsConstant {
		if cfg.JuliaConstant == nil {
			return fmt.Errorf("%w: %s needs a Julia constant", ErrMissingFractalParameter, d.Name)
		}
		if cmplx.IsNaN(*cfg.JuliaConstant) || cmplx.IsInf(*cfg.JuliaConstant) {
			return fmt.Errorf("%w: Julia constant %v is not finite", ErrMissingFractalParameter, *cfg.JuliaConstant)
		}
	}
	return nil
}

// constant returns the Julia constant, or 0 when unset.
func (cfg RenderConfig) constant() complex128 {
	if cfg.JuliaConstant == nil {
		return 0
	}
	return *cfg.JuliaConstant
}

// snapshot returns cfg with its own copy of the Julia constant, so later
// writes through the caller's pointer cannot reach a render in progress.
func (cfg RenderConfig) snapshot() RenderConfig {
	if cfg.JuliaConstant != nil {
		c := *cfg.JuliaConstant
		cfg.JuliaConstant = &c
	}
	return cfg
}
