package positions

import (
	"math"

	"github.com/golang/glog"

	"github.com/bcdannyboy/blackvol/volatility"
)

// sanitizeGreeks replaces NaN and infinite greeks with 0 so the row can be
// written as JSON.
func sanitizeGreeks(id string, g Greeks) Greeks {
	fields := []struct {
		name  string
		value *float64
	}{
		{"price", &g.Price},
		{"delta", &g.Delta},
		{"dual delta", &g.DualDelta},
		{"gamma", &g.Gamma},
		{"vega", &g.Vega},
		{"theta", &g.Theta},
		{"vanna", &g.Vanna},
		{"vomma", &g.Vomma},
	}
	for _, f := range fields {
		if math.IsNaN(*f.value) || math.IsInf(*f.value, 0) {
			glog.V(1).Infof("%s: %s is %v, reporting 0", id, f.name, *f.value)
			*f.value = 0
		}
	}
	return g
}

// Validate rejects legs the Black functions cannot price.
func (o SimpleOptionData) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"forward", o.Forward},
		{"strike", o.Strike},
		{"time to expiry", o.TimeToExpiry},
		{"discount factor", o.DiscountFactor},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || f.value < 0 {
			return volatility.InvalidArgument("%s must be non-negative, have %v", f.name, f.value)
		}
	}
	return nil
}

// IntrinsicValue is the discounted payoff at the current forward.
func (o SimpleOptionData) IntrinsicValue() float64 {
	if o.IsCall {
		return o.DiscountFactor * math.Max(0, o.Forward-o.Strike)
	}
	return o.DiscountFactor * math.Max(0, o.Strike-o.Forward)
}
