package rootfinding

import (
	"fmt"
	"math"
)

const (
	bisectionMaxIterations = 100
	bisectionZero          = 1e-16
)

// BisectionRootFinder halves a bracketing interval until it is narrower than Accuracy.
type BisectionRootFinder struct {
	Accuracy float64
}

func NewBisectionRootFinder(accuracy float64) *BisectionRootFinder {
	return &BisectionRootFinder{Accuracy: accuracy}
}

// Root finds x in [x1, x2] with f(x) = 0. The endpoints may be given in
// either order but f must change sign across them.
func (b *BisectionRootFinder) Root(f func(float64) float64, x1, x2 float64) (float64, error) {
	if f == nil {
		return 0, fmt.Errorf("%w: nil function", ErrInvalidInterval)
	}
	if math.IsNaN(x1) || math.IsNaN(x2) {
		return 0, fmt.Errorf("%w: [%v, %v]", ErrInvalidInterval, x1, x2)
	}

	y1 := f(x1)
	y2 := f(x2)
	if math.IsNaN(y1) || math.IsNaN(y2) {
		return 0, fmt.Errorf("%w: f(%v)=%v, f(%v)=%v", ErrNaNEvaluation, x1, y1, x2, y2)
	}
	if math.Abs(y2) < b.Accuracy {
		return x2, nil
	}
	if math.Abs(y1) < b.Accuracy {
		return x1, nil
	}
	if y1*y2 > 0 {
		return 0, fmt.Errorf("%w: f(%v)=%v and f(%v)=%v have the same sign", ErrRootNotBracketed, x1, y1, x2, y2)
	}

	// walk from whichever end has a negative value
	var dx, root float64
	if y1 < 0 {
		dx = x2 - x1
		root = x1
	} else {
		dx = x1 - x2
		root = x2
	}
	for i := 0; i < bisectionMaxIterations; i++ {
		dx *= 0.5
		mid := root + dx
		y := f(mid)
		if math.IsNaN(y) {
			return 0, fmt.Errorf("%w: f(%v)", ErrNaNEvaluation, mid)
		}
		if y <= 0 {
			root = mid
		}
		if math.Abs(dx) < b.Accuracy || math.Abs(y) < bisectionZero {
			return root, nil
		}
	}
	return 0, fmt.Errorf("%w: bisection did not converge in %d iterations", ErrMaxIterations, bisectionMaxIterations)
}
