package models

import (
	"math"

	"github.com/golang/glog"

	"github.com/bcdannyboy/blackvol/probability"
	"github.com/bcdannyboy/blackvol/volatility"
)

// ImpliedVolatility returns the lognormal volatility at which the Black
// forward price equals price, starting the solver from volatility.VolGuess.
func ImpliedVolatility(price, forward, strike, timeToExpiry float64, isCall bool) (float64, error) {
	return ImpliedVolatilityWithGuess(price, forward, strike, timeToExpiry, isCall, volatility.VolGuess)
}

// ImpliedVolatilityWithGuess is ImpliedVolatility with a caller supplied
// starting volatility.
//
// The intrinsic value is removed first and the remaining time value is
// matched by the out-of-the-money option of the same strike.
func ImpliedVolatilityWithGuess(optionPrice, forward, strike, timeToExpiry float64, isCall bool, volGuess float64) (float64, error) {
	if err := checkNonNegative("forward", forward); err != nil {
		return 0, err
	}
	if err := checkNonNegative("strike", strike); err != nil {
		return 0, err
	}
	if err := checkNonNegative("timeToExpiry", timeToExpiry); err != nil {
		return 0, err
	}
	if err := checkNonNegative("option price", optionPrice); err != nil {
		return 0, err
	}

	intrinsic := math.Max(0, callSign(isCall)*(forward-strike))
	if optionPrice < intrinsic {
		return 0, volatility.InvalidArgument("option price (%v) less than intrinsic value (%v)", optionPrice, intrinsic)
	}
	if optionPrice == intrinsic {
		return 0, nil
	}
	otmPrice := optionPrice - intrinsic

	if timeToExpiry == 0 {
		return 0, &NoImpliedVolatilityError{
			Price: optionPrice,
			Err:   volatility.InvalidArgument("time value %v at expiry", otmPrice),
		}
	}
	if limit := math.Min(forward, strike); otmPrice >= limit {
		return 0, &NoImpliedVolatilityError{
			Price: optionPrice,
			Err:   volatility.InvalidArgument("out-of-the-money price (%v) must be below min(forward, strike) (%v)", otmPrice, limit),
		}
	}

	if forward == strike {
		return 2 * probability.NormalQuantile(0.5*(1+otmPrice/forward)) / math.Sqrt(timeToExpiry), nil
	}

	otmIsCall := strike > forward
	solver := volatility.NewSolver(func(sigma float64) (float64, float64) {
		b := newBlackState(forward, strike, timeToExpiry, sigma)
		return price(b, otmIsCall), vega(b)
	})
	vol, err := solver.ImpliedVolatilityWithGuess(otmPrice, volGuess)
	if err != nil {
		glog.V(1).Infof("implied volatility failed for price %v forward %v strike %v time %v: %v", optionPrice, forward, strike, timeToExpiry, err)
		return 0, err
	}
	return vol, nil
}
