package fractal

import "math"

// escapeRadiusSq is the squared magnitude at which a trajectory escapes.
const escapeRadiusSq = 4

// IterationResult is the outcome of iterating one plane coordinate.
type IterationResult struct {
	// Escaped is true when the trajectory left the escape radius before the
	// iteration cap was reached.
	Escaped bool

	// Iterations is the number of recurrence steps taken.
	Iterations uint32
}

// IterationStrategy evaluates the escape-time recurrence of one fractal.
//
// Implementations must be pure: the renderer calls Evaluate concurrently
// from several goroutines with the same strategy value.
type IterationStrategy interface {
	Evaluate(c complex128, maxIter uint32) IterationResult
}

// MandelbrotStrategy iterates z = z² + c with z₀ = 0 and c the coordinate.
type MandelbrotStrategy struct{}

// Evaluate implements IterationStrategy.
func (MandelbrotStrategy) Evaluate(c complex128, maxIter uint32) IterationResult {
	return quadratic(0, 0, real(c), imag(c), maxIter)
}

// JuliaStrategy iterates z = z² + C with z₀ the coordinate.
type JuliaStrategy struct {
	C complex128
}

// Evaluate implements IterationStrategy.
func (j JuliaStrategy) Evaluate(z complex128, maxIter uint32) IterationResult {
	return quadratic(real(z), imag(z), real(j.C), imag(j.C), maxIter)
}

// BurningShipStrategy iterates the Mandelbrot recurrence with the imaginary
// update replaced by |2·zr·zi| + ci.
type BurningShipStrategy struct{}

// Evaluate implements IterationStrategy.
func (BurningShipStrategy) Evaluate(c complex128, maxIter uint32) IterationResult {
	cr, ci := real(c), imag(c)
	var zr, zi float64
	var i uint32
	for ; i < maxIter; i++ {
		if zr*zr+zi*zi >= escapeRadiusSq {
			return IterationResult{Escaped: true, Iterations: i}
		}
		zr, zi = zr*zr-zi*zi+cr, math.Abs(2*zr*zi)+ci
	}
	return capped(zr, zi, maxIter)
}

// quadratic runs z = z² + c from (zr, zi).
func quadratic(zr, zi, cr, ci float64, maxIter uint32) IterationResult {
	var i uint32
	for ; i < maxIter; i++ {
		if zr*zr+zi*zi >= escapeRadiusSq {
			return IterationResult{Escaped: true, Iterations: i}
		}
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
	}
	return capped(zr, zi, maxIter)
}

// capped builds the result for a trajectory that used up the iteration cap.
// A trajectory that reaches a positive cap counts as bounded even if its
// last step crossed the radius. With a zero cap only the starting point is
// tested.
func capped(zr, zi float64, maxIter uint32) IterationResult {
	return IterationResult{
		Escaped:    maxIter == 0 && zr*zr+zi*zi >= escapeRadiusSq,
		Iterations: maxIter,
	}
}
