package models

import (
	"math"

	"github.com/bcdannyboy/blackvol/probability"
)

// DriftlessTheta is minus the derivative of the forward price with respect to
// time to expiry, holding the forward fixed and ignoring discounting.
func DriftlessTheta(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	return driftlessTheta(newBlackState(forward, strike, timeToExpiry, lognormalVol), lognormalVol), nil
}

func driftlessTheta(b blackState, lognormalVol float64) float64 {
	if b.largeSigmaRootT {
		return 0
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			return 0
		}
		logAmbiguous("driftlessTheta", b)
		return -0.5 * product(b.forward, probability.NormalPDF(0)) * lognormalVol / math.Max(b.rootT, Small)
	}
	n := probability.NormalPDF(b.d1())
	if n == 0 {
		return 0
	}
	return -0.5 * product(b.forward, n) * lognormalVol / b.rootT
}

func checkRate(rate float64) error {
	return checkFinite("rate", rate)
}

// Theta is the spot theta of a discounted option: the forward is assumed to
// grow at rate, so the result matches the textbook Black-Scholes theta.
func Theta(forward, strike, timeToExpiry, lognormalVol float64, isCall bool, rate float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	discount := math.Exp(-rate * timeToExpiry)
	return discount * (driftlessTheta(b, lognormalVol) + product(rate*strike, dualDelta(b, isCall))), nil
}

// ThetaMod is the theta of a discounted option whose forward is held fixed.
func ThetaMod(forward, strike, timeToExpiry, lognormalVol float64, isCall bool, rate float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	discount := math.Exp(-rate * timeToExpiry)
	return discount * (product(rate, price(b, isCall)) + driftlessTheta(b, lognormalVol)), nil
}
