// Package scene reads and writes render configurations as JSON documents.
//
// A scene file looks like:
//
//	{
//	  "fractal": "julia set",
//	  "center": [0, 0],
//	  "scale": 3.2,
//	  "width": 800,
//	  "height": 800,
//	  "maxIterations": 200,
//	  "juliaConstant": [-0.8, 0.156]
//	}
//
// Fields left out keep the explorer defaults. Without a center the view
// starts at the chosen fractal's own start position.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	fractal "github.com/Superangers/fractal-explorer"
)

// ErrInvalidScene is returned for documents that are not valid scene JSON.
var ErrInvalidScene = errors.New("scene: invalid document")

// Scene is the file form of a fractal.RenderConfig.
type Scene struct {
	Fractal       string      `json:"fractal"`
	Center        *[2]float64 `json:"center,omitempty"`
	Scale         float64     `json:"scale"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	MaxIterations uint32      `json:"maxIterations"`
	JuliaConstant *[2]float64 `json:"juliaConstant,omitempty"`
}

// FromConfig converts cfg to its file form.
func FromConfig(cfg fractal.RenderConfig) Scene {
	s := Scene{
		Fractal:       cfg.Kind.String(),
		Center:        &[2]float64{real(cfg.Viewport.Center), imag(cfg.Viewport.Center)},
		Scale:         cfg.Viewport.Scale,
		Width:         cfg.Viewport.Width,
		Height:        cfg.Viewport.Height,
		MaxIterations: cfg.MaxIterations,
	}
	if cfg.JuliaConstant != nil {
		c := *cfg.JuliaConstant
		s.JuliaConstant = &[2]float64{real(c), imag(c)}
	}
	return s
}

// Config converts s to a validated fractal.RenderConfig.
func (s Scene) Config() (fractal.RenderConfig, error) {
	cfg, err := s.RenderConfig()
	if err != nil {
		return fractal.RenderConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return fractal.RenderConfig{}, err
	}
	return cfg, nil
}

// RenderConfig converts s without validating the result, for callers that
// adjust the configuration before checking it. Only the fractal name must
// be known.
func (s Scene) RenderConfig() (fractal.RenderConfig, error) {
	kind, err := fractal.ParseKind(s.Fractal)
	if err != nil {
		return fractal.RenderConfig{}, err
	}
	cfg := fractal.NewConfig(kind,
		fractal.WithScale(s.Scale),
		fractal.WithResolution(s.Width, s.Height),
		fractal.WithMaxIterations(s.MaxIterations),
	)
	if s.Center != nil {
		cfg.Viewport.Center = complex(s.Center[0], s.Center[1])
	}
	cfg.JuliaConstant = nil
	if s.JuliaConstant != nil {
		c := complex(s.JuliaConstant[0], s.JuliaConstant[1])
		cfg.JuliaConstant = &c
	}
	return cfg, nil
}

// Decode reads one scene from r. Fields absent from the document keep the
// values of fractal.DefaultConfig, except the center, which is left unset so
// that the fractal's start position applies. Unknown fields are rejected.
func Decode(r io.Reader) (Scene, error) {
	s := FromConfig(fractal.DefaultConfig())
	s.Center = nil
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return s, nil
}

// Encode writes s to w as indented JSON.
func (s Scene) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	return nil
}

// Load reads a scene file and converts it to a validated configuration.
func Load(path string) (fractal.RenderConfig, error) {
	cfg, err := Read(path)
	if err != nil {
		return fractal.RenderConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return fractal.RenderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read reads a scene file like Load but leaves validation to the caller.
func Read(path string) (fractal.RenderConfig, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fractal.RenderConfig{}, fmt.Errorf("scene: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := Decode(f)
	if err != nil {
		return fractal.RenderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := s.RenderConfig()
	if err != nil {
		return fractal.RenderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as a scene file.
func Save(path string, cfg fractal.RenderConfig) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("scene: create file: %w", err)
	}
	if err := FromConfig(cfg).Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
