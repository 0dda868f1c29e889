package models

import (
	"math"

	"github.com/bcdannyboy/blackvol/probability"
)

// Every greek branches on sigmaRootT first. Above Large the option behaves as
// if d1 and d2 were infinite; below Small it is at expiry, where a strike on
// the forward has no defined limit and gets a fixed reference value.

// Delta is the derivative of the forward price with respect to the forward.
func Delta(forward, strike, timeToExpiry, lognormalVol float64, isCall bool) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	return delta(newBlackState(forward, strike, timeToExpiry, lognormalVol), isCall), nil
}

func delta(b blackState, isCall bool) float64 {
	if b.largeSigmaRootT {
		if isCall {
			return 1
		}
		return 0
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			if isCall {
				if b.forward > b.strike {
					return 1
				}
				return 0
			}
			if b.forward > b.strike {
				return 0
			}
			return -1
		}
		logAmbiguous("delta", b)
		if isCall {
			return 0.5
		}
		return -0.5
	}
	sign := callSign(isCall)
	return sign * probability.NormalCDF(sign*b.d1())
}

// DualDelta is the derivative of the forward price with respect to the strike.
func DualDelta(forward, strike, timeToExpiry, lognormalVol float64, isCall bool) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	return dualDelta(newBlackState(forward, strike, timeToExpiry, lognormalVol), isCall), nil
}

func dualDelta(b blackState, isCall bool) float64 {
	if b.largeSigmaRootT {
		if isCall {
			return 0
		}
		return 1
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			if isCall {
				if b.forward > b.strike {
					return -1
				}
				return 0
			}
			if b.forward > b.strike {
				return 0
			}
			return 1
		}
		logAmbiguous("dualDelta", b)
		if isCall {
			return -0.5
		}
		return 0.5
	}
	sign := callSign(isCall)
	return -sign * probability.NormalCDF(sign*b.d2())
}

// SimpleDelta is sign*N(sign*d) with d = log(forward/strike)/sigmaRootT, the
// moneyness measure used by some FX smile conventions. It is not a price
// derivative.
func SimpleDelta(forward, strike, timeToExpiry, lognormalVol float64, isCall bool) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	sign := callSign(isCall)
	if b.largeSigmaRootT {
		return 0.5 * sign, nil
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			if isCall {
				if forward > strike {
					return 1, nil
				}
				return 0, nil
			}
			if forward > strike {
				return 0, nil
			}
			return -1, nil
		}
		logAmbiguous("simpleDelta", b)
		return 0.5 * sign, nil
	}
	d := 0.0
	if !b.atTheMoney() {
		d = math.Log(forward/strike) / b.sigmaRootT
	}
	return sign * probability.NormalCDF(sign*d), nil
}

// StrikeForDelta returns the strike whose forward delta is forwardDelta.
func StrikeForDelta(forward, forwardDelta, timeToExpiry, lognormalVol float64, isCall bool) (float64, error) {
	return ImpliedStrike(forwardDelta, isCall, forward, timeToExpiry, lognormalVol)
}

// Gamma is the second derivative of the forward price with respect to the forward.
func Gamma(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	return gamma(newBlackState(forward, strike, timeToExpiry, lognormalVol)), nil
}

func gamma(b blackState) float64 {
	if b.largeSigmaRootT || b.forward == 0 {
		return 0
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			return 0
		}
		logAmbiguous("gamma", b)
		if b.largeForward {
			return probability.NormalPDF(0)
		}
		return probability.NormalPDF(0) / b.forward / math.Max(b.sigmaRootT, Small)
	}
	n := probability.NormalPDF(b.d1())
	if n == 0 {
		return 0
	}
	return n / b.forward / b.sigmaRootT
}

// DualGamma is the second derivative of the forward price with respect to the strike.
func DualGamma(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	if b.largeSigmaRootT || strike == 0 {
		return 0, nil
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			return 0, nil
		}
		logAmbiguous("dualGamma", b)
		if b.largeStrike {
			return probability.NormalPDF(0), nil
		}
		return probability.NormalPDF(0) / strike / math.Max(b.sigmaRootT, Small), nil
	}
	n := probability.NormalPDF(b.d2())
	if n == 0 {
		return 0, nil
	}
	return n / strike / b.sigmaRootT, nil
}

// CrossGamma is the mixed second derivative with respect to forward and strike.
func CrossGamma(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	if b.largeSigmaRootT || forward == 0 {
		return 0, nil
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			return 0, nil
		}
		logAmbiguous("crossGamma", b)
		if b.largeForward {
			return -probability.NormalPDF(0), nil
		}
		return -probability.NormalPDF(0) / forward / math.Max(b.sigmaRootT, Small), nil
	}
	n := probability.NormalPDF(b.d2())
	if n == 0 {
		return 0, nil
	}
	return -n / forward / b.sigmaRootT, nil
}

// Vega is the derivative of the forward price with respect to the volatility.
func Vega(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	return vega(newBlackState(forward, strike, timeToExpiry, lognormalVol)), nil
}

func vega(b blackState) float64 {
	if b.largeSigmaRootT {
		return 0
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			return 0
		}
		logAmbiguous("vega", b)
		if b.rootT < Small && b.largeForward {
			return probability.NormalPDF(0)
		}
		return product(b.forward, b.rootT) * probability.NormalPDF(0)
	}
	n := probability.NormalPDF(b.d1())
	if n == 0 {
		return 0
	}
	return product(b.forward, b.rootT) * n
}

// Vanna is the derivative of delta with respect to the volatility.
func Vanna(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	if b.largeSigmaRootT {
		return 0, nil
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			return 0, nil
		}
		logAmbiguous("vanna", b)
		return 0.5 * b.rootT * probability.NormalPDF(0), nil
	}
	n := probability.NormalPDF(b.d1())
	if n == 0 {
		return 0, nil
	}
	return -n * b.d2() * b.rootT / b.sigmaRootT, nil
}

// DualVanna is the derivative of dual delta with respect to the volatility.
func DualVanna(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	if b.largeSigmaRootT {
		return 0, nil
	}
	if b.smallSigmaRootT() {
		if !b.atTheMoney() {
			return 0, nil
		}
		logAmbiguous("dualVanna", b)
		return 0.5 * b.rootT * probability.NormalPDF(0), nil
	}
	n := probability.NormalPDF(b.d2())
	if n == 0 {
		return 0, nil
	}
	return n * b.d1() * b.rootT / b.sigmaRootT, nil
}

// Vomma is the second derivative of the forward price with respect to the volatility.
func Vomma(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	if err := checkInputs(forward, strike, timeToExpiry, lognormalVol); err != nil {
		return 0, err
	}
	b := newBlackState(forward, strike, timeToExpiry, lognormalVol)
	if b.largeSigmaRootT {
		return 0, nil
	}
	if b.smallSigmaRootT() {
		// at the money the limit -forward*t*pdf(0)*sigmaRootT/4 vanishes as well
		if b.atTheMoney() {
			logAmbiguous("vomma", b)
		}
		return 0, nil
	}
	n := probability.NormalPDF(b.d1())
	if n == 0 {
		return 0, nil
	}
	return product(b.forward, n) * timeToExpiry * b.d1() * b.d2() / b.sigmaRootT, nil
}

// Volga is another name for Vomma.
func Volga(forward, strike, timeToExpiry, lognormalVol float64) (float64, error) {
	return Vomma(forward, strike, timeToExpiry, lognormalVol)
}
