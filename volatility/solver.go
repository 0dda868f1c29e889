// Package volatility inverts a monotone option pricing function to find the
// volatility that reproduces an observed price. It knows nothing about the
// Black formula; any model that can price (and optionally give vega) at a
// trial volatility can be plugged in.
package volatility

import (
	"math"

	"github.com/golang/glog"

	"github.com/bcdannyboy/blackvol/rootfinding"
)

const (
	// BracketStep is the initial half width of the search interval around the guess.
	BracketStep = 0.1
	// MaxChange caps the size of a single Newton update.
	MaxChange = 0.5
	// MaxIterations bounds the Newton loop before bisection takes over.
	MaxIterations = 20
	// VolTol is the volatility change below which the solver stops.
	VolTol = 1e-9
	// VolGuess is the starting volatility when the caller has none.
	VolGuess = 0.3
)

// PriceFunc prices an option at a trial volatility.
type PriceFunc func(sigma float64) float64

// PriceAndVegaFunc returns the price and its derivative with respect to volatility.
type PriceAndVegaFunc func(sigma float64) (price, vega float64)

// Solver is a safeguarded Newton-Raphson implied volatility solver. A Solver
// holds only the caller's callbacks, so one value may serve concurrent calls.
type Solver struct {
	price        PriceFunc
	priceAndVega PriceAndVegaFunc
}

// NewSolver builds a solver from a combined price and vega callback.
func NewSolver(priceAndVega PriceAndVegaFunc) *Solver {
	s := &Solver{priceAndVega: priceAndVega}
	if priceAndVega != nil {
		s.price = func(sigma float64) float64 {
			p, _ := priceAndVega(sigma)
			return p
		}
	}
	return s
}

// NewSolverFromFuncs builds a solver from separate price and vega callbacks.
func NewSolverFromFuncs(price, vega PriceFunc) *Solver {
	s := &Solver{price: price}
	if price != nil && vega != nil {
		s.priceAndVega = func(sigma float64) (float64, float64) {
			return price(sigma), vega(sigma)
		}
	}
	return s
}

// ImpliedVolatility solves for volatility starting from VolGuess.
func (s *Solver) ImpliedVolatility(optionPrice float64) (float64, error) {
	return s.ImpliedVolatilityWithGuess(optionPrice, VolGuess)
}

// ImpliedVolatilityWithGuess solves price(sigma) = optionPrice. The bracket
// found around volGuess is narrowed on every step, so a Newton update can
// never leave the interval that is known to contain the root.
func (s *Solver) ImpliedVolatilityWithGuess(optionPrice, volGuess float64) (float64, error) {
	if s == nil || s.price == nil || s.priceAndVega == nil {
		return 0, InvalidArgument("solver requires price and vega functions")
	}
	if math.IsNaN(optionPrice) || math.IsInf(optionPrice, 0) || optionPrice <= 0 {
		return 0, InvalidArgument("option price must be positive and finite, have %v", optionPrice)
	}
	if math.IsNaN(volGuess) || math.IsInf(volGuess, 0) || volGuess < 0 {
		return 0, InvalidArgument("volatility guess must be non-negative and finite, have %v", volGuess)
	}

	lowerSigma, upperSigma, err := s.bracketRoot(optionPrice, volGuess)
	if err != nil {
		return 0, &NoImpliedVolatilityError{Price: optionPrice, Err: err}
	}

	sigma := 0.5 * (lowerSigma + upperSigma)
	price, vega := s.priceAndVega(sigma)
	if degenerate(price, vega) {
		glog.V(1).Infof("degenerate vega %v at sigma %v, switching to bisection", vega, sigma)
		return s.solveByBisection(optionPrice, lowerSigma, upperSigma)
	}
	lowerSigma, upperSigma, change := newtonStep(optionPrice, sigma, price, vega, lowerSigma, upperSigma, upperSigma-lowerSigma)

	count := 0
	for math.Abs(change) > VolTol {
		sigma += change
		price, vega = s.priceAndVega(sigma)
		if degenerate(price, vega) {
			glog.V(1).Infof("degenerate vega %v at sigma %v, switching to bisection", vega, sigma)
			return s.solveByBisection(optionPrice, lowerSigma, upperSigma)
		}
		lowerSigma, upperSigma, change = newtonStep(optionPrice, sigma, price, vega, lowerSigma, upperSigma, change)
		count++
		if count > MaxIterations {
			glog.V(1).Infof("newton did not settle after %d iterations, switching to bisection on [%v, %v]", MaxIterations, lowerSigma, upperSigma)
			return s.solveByBisection(optionPrice, lowerSigma, upperSigma)
		}
	}
	// the last correction is below tolerance but still moves us closer
	return sigma + change, nil
}

func degenerate(price, vega float64) bool {
	return vega == 0 || math.IsNaN(vega) || math.IsNaN(price)
}

// newtonStep narrows the bracket using the sign of the residual at sigma and
// returns the next change, capped at MaxChange. A Newton update that would not
// land strictly inside the narrowed bracket, or that is more than half the
// previous change, is replaced by a step to the middle of the bracket.
func newtonStep(target, sigma, price, vega, lower, upper, previous float64) (float64, float64, float64) {
	diff := price/target - 1
	if diff > 0 {
		upper = sigma
	} else {
		lower = sigma
	}
	change := -diff * target / vega
	if next := sigma + change; change != 0 && (next <= lower || next >= upper || math.Abs(change) > 0.5*math.Abs(previous)) {
		change = 0.5*(lower+upper) - sigma
	}
	return lower, upper, math.Max(-MaxChange, math.Min(MaxChange, change))
}

func (s *Solver) residual(optionPrice float64) func(float64) float64 {
	return func(sigma float64) float64 {
		return s.price(sigma)/optionPrice - 1
	}
}

func (s *Solver) bracketRoot(optionPrice, sigma float64) (float64, float64, error) {
	bracketer := rootfinding.NewBracketRoot()
	return bracketer.BracketedPoints(s.residual(optionPrice), sigma-math.Min(sigma, BracketStep), sigma+BracketStep, 0, math.Inf(1))
}

func (s *Solver) solveByBisection(optionPrice, lowerSigma, upperSigma float64) (float64, error) {
	finder := rootfinding.NewBisectionRootFinder(VolTol)
	sigma, err := finder.Root(s.residual(optionPrice), lowerSigma, upperSigma)
	if err != nil {
		return 0, &NoImpliedVolatilityError{Price: optionPrice, Err: err}
	}
	return sigma, nil
}
