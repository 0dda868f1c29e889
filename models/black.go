package models

import (
	"math"

	"github.com/golang/glog"

	"github.com/bcdannyboy/blackvol/probability"
	"github.com/bcdannyboy/blackvol/volatility"
)

const (
	// Large marks a value treated as infinite.
	Large = 1e13
	// Small marks a value treated as zero.
	Small = 1e-13
)

var (
	ErrInvalidArgument = volatility.ErrInvalidArgument
)

// NoImpliedVolatilityError is returned when no volatility reproduces a price.
type NoImpliedVolatilityError = volatility.NoImpliedVolatilityError

// ValueDerivatives is a value together with its first order sensitivities.
// The order of Derivatives is documented by the function returning it.
type ValueDerivatives struct {
	Value       float64
	Derivatives []float64
}

// blackState holds the inputs of one Black evaluation after validation, with
// the regime flags every price and greek branches on.
type blackState struct {
	forward    float64
	strike     float64
	rootT      float64
	sigmaRootT float64

	largeForward    bool
	largeStrike     bool
	largeSigmaRootT bool
}

// totalVol is lognormalVol*rootT, with the indeterminate 0*Inf taken as 1.
func totalVol(lognormalVol, rootT float64) float64 {
	sigmaRootT := lognormalVol * rootT
	if math.IsNaN(sigmaRootT) {
		glog.V(2).Infof("lognormalVol * rootT ambiguous (vol %v, rootT %v), using 1.0", lognormalVol, rootT)
		return 1
	}
	return sigmaRootT
}

func newBlackState(forward, strike, timeToExpiry, lognormalVol float64) blackState {
	rootT := math.Sqrt(timeToExpiry)
	sigmaRootT := totalVol(lognormalVol, rootT)
	return blackState{
		forward:         forward,
		strike:          strike,
		rootT:           rootT,
		sigmaRootT:      sigmaRootT,
		largeForward:    forward > Large,
		largeStrike:     strike > Large,
		largeSigmaRootT: sigmaRootT > Large,
	}
}

func (b blackState) bothLarge() bool {
	return b.largeForward && b.largeStrike
}

func (b blackState) smallSigmaRootT() bool {
	return b.sigmaRootT < Small
}

// atTheMoney is true when log(forward/strike) is 0 or indeterminate.
func (b blackState) atTheMoney() bool {
	return math.Abs(b.forward-b.strike) < Small || b.bothLarge()
}

func (b blackState) d1() float64 {
	if b.atTheMoney() || b.largeSigmaRootT {
		return 0.5 * b.sigmaRootT
	}
	return math.Log(b.forward/b.strike)/b.sigmaRootT + 0.5*b.sigmaRootT
}

func (b blackState) d2() float64 {
	if b.atTheMoney() || b.largeSigmaRootT {
		return -0.5 * b.sigmaRootT
	}
	return b.d1() - b.sigmaRootT
}

func logAmbiguous(function string, b blackState) {
	glog.V(2).Infof("%s: (log 1.)/0. ambiguous at forward %v strike %v sigmaRootT %v, returning reference value", function, b.forward, b.strike, b.sigmaRootT)
}

func callSign(isCall bool) float64 {
	if isCall {
		return 1
	}
	return -1
}

// product treats a zero factor as absorbing, so 0*Inf gives 0.
func product(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a * b
}

func checkNonNegative(name string, value float64) error {
	if math.IsNaN(value) || value < 0 {
		return volatility.InvalidArgument("%s must be non-negative, have %v", name, value)
	}
	return nil
}

func checkFinite(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return volatility.InvalidArgument("%s must be finite, have %v", name, value)
	}
	return nil
}

func checkInputs(forward, strike, timeToExpiry, lognormalVol float64) error {
	if err := checkNonNegative("forward", forward); err != nil {
		return err
	}
	if err := checkNonNegative("strike", strike); err != nil {
		return err
	}
	if err := checkNonNegative("timeToExpiry", timeToExpiry); err != nil {
		return err
	}
	return checkNonNegative("lognormalVol", lognormalVol)
}

// Price is the forward (undiscounted) Black price of a European option.
func Price(forward, strike, timeToExpiry, lognormalVol float64, isCall bool) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	return price(newBlackState(forward, strike, timeToExpiry, lognormalVol), isCall), nil
}

func price(b blackState, isCall bool) float64 {
	sign := callSign(isCall)
	if b.bothLarge() {
		glog.V(2).Infof("price: (large value)/(large value) ambiguous at forward %v strike %v", b.forward, b.strike)
		if isCall {
			if b.forward >= b.strike {
				return b.forward
			}
			return 0
		}
		if b.strike >= b.forward {
			return b.strike
		}
		return 0
	}
	if b.smallSigmaRootT() {
		return math.Max(sign*(b.forward-b.strike), 0)
	}

	nF := probability.NormalCDF(sign * b.d1())
	nS := probability.NormalCDF(sign * b.d2())
	first := product(b.forward, nF)
	second := product(b.strike, nS)
	return math.Max(0, sign*(first-second))
}

// PriceAdjoint returns the Black price and its derivatives with respect to
// forward, strike and volatility, in that order.
func PriceAdjoint(forward, strike, timeToExpiry, lognormalVol float64, isCall bool) (ValueDerivatives, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return ValueDerivatives{}, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	return ValueDerivatives{
		Value: price(b, isCall),
		Derivatives: []float64{
			delta(b, isCall),
			dualDelta(b, isCall),
			vega(b),
		},
	}, nil
}
