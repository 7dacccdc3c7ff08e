package fractal

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Descriptor is the registry entry of one fractal. Describe and Lookup
// return copies, so changing one does not affect the registry.
type Descriptor struct {
	// Kind is the fractal this entry describes.
	Kind Kind

	// Name is the registry key, as listed by Names.
	Name string

	// ColorSpace tags the triples produced by Shade.
	ColorSpace ColorSpace

	// Center is a sensible start position for exploring this fractal.
	Center complex128

	// NeedsConstant reports whether the fractal takes a Julia constant.
	NeedsConstant bool

	// Shade maps iteration results to pixel triples.
	Shade ShadeFunc

	strategy func(c complex128) IterationStrategy
}

// Strategy returns the iteration strategy for the given constant. The
// constant is ignored unless NeedsConstant is set.
func (d Descriptor) Strategy(c complex128) IterationStrategy {
	return d.strategy(c)
}

// Title returns the name in title case, for display.
func (d Descriptor) Title() string {
	// A Caser keeps state between calls and cannot be shared.
	return cases.Title(language.English).String(d.Name)
}

// registry is indexed by Kind and fixed at init.
var registry = [numKinds]Descriptor{
	Mandelbrot: {
		Kind:       Mandelbrot,
		Name:       "mandelbrot",
		ColorSpace: HSV,
		Center:     complex(-0.68, 0),
		Shade:      ShadeHueRamp,
		strategy:   func(complex128) IterationStrategy { return MandelbrotStrategy{} },
	},
	BurningShip: {
		Kind:       BurningShip,
		Name:       "burningship",
		ColorSpace: RGB,
		Center:     0,
		Shade:      ShadeEmber,
		strategy:   func(complex128) IterationStrategy { return BurningShipStrategy{} },
	},
	Julia: {
		Kind:          Julia,
		Name:          "julia set",
		ColorSpace:    HSV,
		Center:        0,
		NeedsConstant: true,
		Shade:         ShadeHueRamp,
		strategy:      func(c complex128) IterationStrategy { return JuliaStrategy{C: c} },
	},
}

func descriptorOf(k Kind) (*Descriptor, bool) {
	if k >= numKinds {
		return nil, false
	}
	return &registry[k], true
}

// Describe returns the registry entry of k.
func Describe(k Kind) (Descriptor, error) {
	d, ok := descriptorOf(k)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnknownFractalKind, uint8(k))
	}
	return *d, nil
}

// Lookup returns the registry entry with the given name.
// Names are matched exactly; use ParseKind for lenient matching.
func Lookup(name string) (Descriptor, error) {
	for i := range registry {
		if registry[i].Name == name {
			return registry[i], nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownFractalKind, name)
}

// Names lists the registry names in Kind order.
func Names() []string {
	names := make([]string, len(registry))
	for i := range registry {
		names[i] = registry[i].Name
	}
	return names
}

// Kinds lists every registered Kind.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, strings.ToLower(d.ColorSpace.String()))
}
