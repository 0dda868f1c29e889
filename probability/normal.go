package probability

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// unitNormal is a value type with no internal state, so sharing it across
// goroutines needs no synchronisation.
var unitNormal = distuv.UnitNormal

// NormalCDF calculates the cumulative distribution function of the standard normal distribution
func NormalCDF(x float64) float64 {
	return unitNormal.CDF(x)
}

// NormalPDF calculates the probability density function of the standard normal distribution
func NormalPDF(x float64) float64 {
	return unitNormal.Prob(x)
}

// NormalQuantile returns the inverse of NormalCDF. p outside [0, 1] yields NaN;
// 0 and 1 map to -Inf and +Inf.
func NormalQuantile(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0 || p > 1:
		return math.NaN()
	case p == 0:
		return math.Inf(-1)
	case p == 1:
		return math.Inf(1)
	}
	return unitNormal.Quantile(p)
}
