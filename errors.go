package fractal

import "errors"

// Configuration errors. Every failure returned by Render wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrInvalidViewport is returned for a non-positive or non-finite scale,
	// a non-finite center, or a zero-sized resolution.
	ErrInvalidViewport = errors.New("fractal: invalid viewport")

	// ErrMissingFractalParameter is returned when a fractal that needs an
	// extra parameter (the Julia constant) is configured without it.
	ErrMissingFractalParameter = errors.New("fractal: missing fractal parameter")

	// ErrUnknownFractalKind is returned when a name or Kind is not present in
	// the registry.
	ErrUnknownFractalKind = errors.New("fractal: unknown fractal kind")
)
