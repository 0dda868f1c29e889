// Package rootfinding holds the one-dimensional bracketing and bisection
// routines used by the implied volatility solver.
package rootfinding

import (
	"errors"
	"fmt"
	"math"
)

const (
	bracketRatio    = 1.6
	bracketMaxSteps = 50
)

var (
	// ErrBracketNotFound means the function kept one sign over every interval tried.
	ErrBracketNotFound = errors.New("failed to bracket root")
	// ErrRootNotBracketed means the function has the same sign at both ends.
	ErrRootNotBracketed = errors.New("root is not bracketed")
	// ErrMaxIterations means bisection ran out of iterations before converging.
	ErrMaxIterations = errors.New("maximum iterations reached")
	// ErrInvalidInterval reports bounds that are out of order or outside the limits.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrNaNEvaluation means the function returned NaN.
	ErrNaNEvaluation = errors.New("function evaluated to NaN")
)

// BracketRoot expands an initial interval geometrically until the function
// changes sign across it.
type BracketRoot struct {
	Ratio    float64
	MaxSteps int
}

// NewBracketRoot returns a bracketer with the default expansion ratio of 1.6.
func NewBracketRoot() *BracketRoot {
	return &BracketRoot{Ratio: bracketRatio, MaxSteps: bracketMaxSteps}
}

// BracketedPoints returns (lower, upper) such that f(lower)*f(upper) <= 0.
// Expansion always moves the end with the smaller |f| and never leaves [minX, maxX].
func (b *BracketRoot) BracketedPoints(f func(float64) float64, xLower, xUpper, minX, maxX float64) (float64, float64, error) {
	if f == nil {
		return 0, 0, fmt.Errorf("%w: nil function", ErrInvalidInterval)
	}
	if xLower < minX {
		return 0, 0, fmt.Errorf("%w: xLower %v below minX %v", ErrInvalidInterval, xLower, minX)
	}
	if xUpper > maxX {
		return 0, 0, fmt.Errorf("%w: xUpper %v above maxX %v", ErrInvalidInterval, xUpper, maxX)
	}
	if !(xLower < xUpper) {
		return 0, 0, fmt.Errorf("%w: xLower %v must be below xUpper %v", ErrInvalidInterval, xLower, xUpper)
	}

	ratio := b.Ratio
	if ratio <= 0 {
		ratio = bracketRatio
	}
	maxSteps := b.MaxSteps
	if maxSteps <= 0 {
		maxSteps = bracketMaxSteps
	}

	x1, x2 := xLower, xUpper
	f1, f2 := f(x1), f(x2)
	if math.IsNaN(f1) {
		return 0, 0, fmt.Errorf("%w: f(%v)", ErrNaNEvaluation, x1)
	}
	if math.IsNaN(f2) {
		return 0, 0, fmt.Errorf("%w: f(%v)", ErrNaNEvaluation, x2)
	}

	lowerLimitReached := x1 == minX
	upperLimitReached := x2 == maxX
	for count := 0; count < maxSteps; count++ {
		if f1*f2 <= 0 {
			return x1, x2, nil
		}
		if lowerLimitReached && upperLimitReached {
			return 0, 0, fmt.Errorf("%w: no sign change between %v and %v", ErrBracketNotFound, minX, maxX)
		}
		if (math.Abs(f1) < math.Abs(f2) && !lowerLimitReached) || upperLimitReached {
			x1 += ratio * (x1 - x2)
			if x1 <= minX {
				x1 = minX
				lowerLimitReached = true
			}
			f1 = f(x1)
			if math.IsNaN(f1) {
				return 0, 0, fmt.Errorf("%w: f(%v)", ErrNaNEvaluation, x1)
			}
		} else {
			x2 += ratio * (x2 - x1)
			if x2 >= maxX {
				x2 = maxX
				upperLimitReached = true
			}
			f2 = f(x2)
			if math.IsNaN(f2) {
				return 0, 0, fmt.Errorf("%w: f(%v)", ErrNaNEvaluation, x2)
			}
		}
	}
	if f1*f2 <= 0 {
		return x1, x2, nil
	}
	return 0, 0, fmt.Errorf("%w: no sign change after %d steps, last interval [%v, %v]", ErrBracketNotFound, maxSteps, x1, x2)
}
