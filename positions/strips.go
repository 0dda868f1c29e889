package positions

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bcdannyboy/blackvol/models"
	"github.com/bcdannyboy/blackvol/volatility"
)

// ImpliedVolatility finds the single volatility at which the legs, priced
// together, are worth price. A cap quoted as a strip of caplets is the
// usual case.
func ImpliedVolatility(legs []SimpleOptionData, price float64) (float64, error) {
	return ImpliedVolatilityWithGuess(legs, price, volatility.VolGuess)
}

// ImpliedVolatilityWithGuess is ImpliedVolatility with a caller supplied
// starting volatility.
func ImpliedVolatilityWithGuess(legs []SimpleOptionData, price, volGuess float64) (float64, error) {
	if len(legs) == 0 {
		return 0, volatility.InvalidArgument("portfolio has no options")
	}
	if math.IsNaN(price) {
		return 0, volatility.InvalidArgument("portfolio price must not be NaN")
	}

	intrinsics := make([]float64, len(legs))
	for i, leg := range legs {
		if err := leg.Validate(); err != nil {
			return 0, err
		}
		intrinsics[i] = leg.IntrinsicValue()
	}
	intrinsic := floats.Sum(intrinsics)
	if price < intrinsic {
		return 0, volatility.InvalidArgument("portfolio price (%v) less than intrinsic value (%v)", price, intrinsic)
	}
	if price == intrinsic {
		return 0, nil
	}

	prices := make([]float64, len(legs))
	vegas := make([]float64, len(legs))
	solver := volatility.NewSolver(func(sigma float64) (float64, float64) {
		for i, leg := range legs {
			adjoint, err := models.PriceAdjoint(leg.Forward, leg.Strike, leg.TimeToExpiry, sigma, leg.IsCall)
			if err != nil {
				return math.NaN(), math.NaN()
			}
			prices[i] = leg.DiscountFactor * adjoint.Value
			vegas[i] = leg.DiscountFactor * adjoint.Derivatives[2]
		}
		return floats.Sum(prices), floats.Sum(vegas)
	})
	return solver.ImpliedVolatilityWithGuess(price, volGuess)
}

// ImpliedVolatilityOfLeg returns the Black volatility of a single discounted
// leg quoted at price.
func ImpliedVolatilityOfLeg(leg SimpleOptionData, price float64) (float64, error) {
	return ImpliedVolatilityOfLegWithGuess(leg, price, volatility.VolGuess)
}

// ImpliedVolatilityOfLegWithGuess is ImpliedVolatilityOfLeg with a caller
// supplied starting volatility.
func ImpliedVolatilityOfLegWithGuess(leg SimpleOptionData, price, volGuess float64) (float64, error) {
	if err := leg.Validate(); err != nil {
		return 0, err
	}
	if leg.DiscountFactor == 0 {
		return 0, volatility.InvalidArgument("discount factor must be positive to undiscount the price")
	}
	return models.ImpliedVolatilityWithGuess(price/leg.DiscountFactor, leg.Forward, leg.Strike, leg.TimeToExpiry, leg.IsCall, volGuess)
}
