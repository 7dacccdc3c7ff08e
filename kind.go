package fractal

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported escape-time fractals.
type Kind uint8

const (
	// Mandelbrot iterates z = z² + c from z₀ = 0 with c the pixel coordinate.
	Mandelbrot Kind = iota

	// BurningShip is the Mandelbrot recurrence with the imaginary update
	// folded to its absolute value.
	BurningShip

	// Julia iterates z = z² + c from z₀ = the pixel coordinate with c fixed
	// by the Julia constant.
	Julia

	numKinds
)

// String returns the registry name of k.
func (k Kind) String() string {
	if d, ok := descriptorOf(k); ok {
		return d.Name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a registry name to its Kind. Matching ignores case and
// surrounding space; "julia" is accepted as an alias of "julia set".
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "julia" {
		return Julia, nil
	}
	for _, d := range registry {
		if d.Name == n {
			return d.Kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFractalKind, name)
}
