package positions

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bcdannyboy/blackvol/models"
)

// Price is the present value of the leg at the given volatility.
func (o SimpleOptionData) Price(lognormalVol float64) (float64, error) {
	p, err := models.Price(o.Forward, o.Strike, o.TimeToExpiry, lognormalVol, o.IsCall)
	if err != nil {
		return 0, err
	}
	return o.DiscountFactor * p, nil
}

// Vega is the present value vega of the leg.
func (o SimpleOptionData) Vega(lognormalVol float64) (float64, error) {
	v, err := models.Vega(o.Forward, o.Strike, o.TimeToExpiry, lognormalVol)
	if err != nil {
		return 0, err
	}
	return o.DiscountFactor * v, nil
}

// impliedRate is the continuously compounded rate implied by the discount factor.
func (o SimpleOptionData) impliedRate() (float64, bool) {
	if o.DiscountFactor <= 0 || o.TimeToExpiry <= 0 {
		return 0, false
	}
	return -math.Log(o.DiscountFactor) / o.TimeToExpiry, true
}

// theta is the spot theta of the leg, with the forward drifting at the rate
// implied by its discount factor.
func (o SimpleOptionData) theta(lognormalVol float64) (float64, error) {
	rate, ok := o.impliedRate()
	th, err := models.Theta(o.Forward, o.Strike, o.TimeToExpiry, lognormalVol, o.IsCall, rate)
	if err != nil {
		return 0, err
	}
	if ok {
		// models.Theta already discounts at exp(-rate*t), which is the discount factor
		return th, nil
	}
	return o.DiscountFactor * th, nil
}

// Greeks computes the discounted sensitivities of a single leg.
func (o SimpleOptionData) Greeks(lognormalVol float64) (Greeks, error) {
	if err := o.Validate(); err != nil {
		return Greeks{}, err
	}
	F, K, t, vol := o.Forward, o.Strike, o.TimeToExpiry, lognormalVol

	adjoint, err := models.PriceAdjoint(F, K, t, vol, o.IsCall)
	if err != nil {
		return Greeks{}, err
	}
	gamma, err := models.Gamma(F, K, t, vol)
	if err != nil {
		return Greeks{}, err
	}
	vanna, err := models.Vanna(F, K, t, vol)
	if err != nil {
		return Greeks{}, err
	}
	vomma, err := models.Vomma(F, K, t, vol)
	if err != nil {
		return Greeks{}, err
	}
	theta, err := o.theta(vol)
	if err != nil {
		return Greeks{}, err
	}

	df := o.DiscountFactor
	return Greeks{
		Price:     df * adjoint.Value,
		Delta:     df * adjoint.Derivatives[0],
		DualDelta: df * adjoint.Derivatives[1],
		Vega:      df * adjoint.Derivatives[2],
		Gamma:     df * gamma,
		Vanna:     df * vanna,
		Vomma:     df * vomma,
		Theta:     theta,
	}, nil
}

// SumGreeks adds up the greeks of every leg at a common volatility.
func SumGreeks(legs []SimpleOptionData, lognormalVol float64) (Greeks, error) {
	n := len(legs)
	prices := make([]float64, n)
	deltas := make([]float64, n)
	dualDeltas := make([]float64, n)
	gammas := make([]float64, n)
	vegas := make([]float64, n)
	thetas := make([]float64, n)
	vannas := make([]float64, n)
	vommas := make([]float64, n)
	for i, leg := range legs {
		g, err := leg.Greeks(lognormalVol)
		if err != nil {
			return Greeks{}, err
		}
		prices[i], deltas[i], dualDeltas[i], gammas[i] = g.Price, g.Delta, g.DualDelta, g.Gamma
		vegas[i], thetas[i], vannas[i], vommas[i] = g.Vega, g.Theta, g.Vanna, g.Vomma
	}
	return Greeks{
		Price:     floats.Sum(prices),
		Delta:     floats.Sum(deltas),
		DualDelta: floats.Sum(dualDeltas),
		Gamma:     floats.Sum(gammas),
		Vega:      floats.Sum(vegas),
		Theta:     floats.Sum(thetas),
		Vanna:     floats.Sum(vannas),
		Vomma:     floats.Sum(vommas),
	}, nil
}
