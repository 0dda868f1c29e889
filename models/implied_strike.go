package models

import (
	"math"

	"github.com/bcdannyboy/blackvol/probability"
	"github.com/bcdannyboy/blackvol/volatility"
)

func checkDelta(delta float64, isCall bool) error {
	if math.IsNaN(delta) {
		return volatility.InvalidArgument("delta must not be NaN")
	}
	if isCall && (delta <= 0 || delta >= 1) {
		return volatility.InvalidArgument("call delta must be in (0, 1), have %v", delta)
	}
	if !isCall && (delta <= -1 || delta >= 0) {
		return volatility.InvalidArgument("put delta must be in (-1, 0), have %v", delta)
	}
	return nil
}

func checkStrikeInputs(delta float64, isCall bool, forward, timeToExpiry, lognormalVol float64) error {
	if err := checkDelta(delta, isCall); err != nil {
		return err
	}
	if err := checkNonNegative("forward", forward); err != nil {
		return err
	}
	if err := checkNonNegative("timeToExpiry", timeToExpiry); err != nil {
		return err
	}
	return checkNonNegative("lognormalVol", lognormalVol)
}

// ImpliedStrike returns the strike at which an option has the given forward delta.
func ImpliedStrike(delta float64, isCall bool, forward, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkStrikeInputs(delta, isCall, forward, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	sign := callSign(isCall)
	sigmaRootT := totalVol(lognormalVol, math.Sqrt(timeToExpiry))
	d1 := sign * probability.NormalQuantile(sign*delta)
	return forward * math.Exp(-sigmaRootT*d1+0.5*sigmaRootT*sigmaRootT), nil
}

// ImpliedStrikeWithDerivatives returns the implied strike together with its
// derivatives with respect to delta, forward, time to expiry and volatility,
// in that order.
func ImpliedStrikeWithDerivatives(delta float64, isCall bool, forward, timeToExpiry, lognormalVol float64) (ValueDerivatives, error) {
	if err := checkStrikeInputs(delta, isCall, forward, timeToExpiry, lognormalVol); err != nil {
		return ValueDerivatives{}, err
	}
	sign := callSign(isCall)
	rootT := math.Sqrt(timeToExpiry)
	sigmaRootT := totalVol(lognormalVol, rootT)
	q := probability.NormalQuantile(sign * delta)
	d1 := sign * q
	exponent := -sigmaRootT*d1 + 0.5*sigmaRootT*sigmaRootT
	strike := forward * math.Exp(exponent)

	// backward sweep
	exponentBar := strike
	forwardBar := math.Exp(exponent)
	sigmaRootTBar := exponentBar * (sigmaRootT - d1)
	d1Bar := -sigmaRootT * exponentBar
	deltaBar := d1Bar / probability.NormalPDF(q)
	volBar := sigmaRootTBar * rootT
	timeBar := 0.0
	if rootT > 0 {
		timeBar = sigmaRootTBar * lognormalVol * 0.5 / rootT
	}

	return ValueDerivatives{
		Value:       strike,
		Derivatives: []float64{deltaBar, forwardBar, timeBar, volBar},
	}, nil
}
