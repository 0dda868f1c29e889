package models

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/bcdannyboy/blackvol/probability"
)

func mustPrice(t *testing.T, forward, strike, timeToExpiry, vol float64, isCall bool) float64 {
	t.Helper()
	p, err := Price(forward, strike, timeToExpiry, vol, isCall)
	if err != nil {
		t.Fatalf("Price(%v, %v, %v, %v, %v): %v", forward, strike, timeToExpiry, vol, isCall, err)
	}
	return p
}

func TestPriceAtTheMoney(t *testing.T) {
	got := mustPrice(t, 100, 100, 1, 0.2, true)
	want := 100 * (2*probability.NormalCDF(0.1) - 1)
	if !scalar.EqualWithinAbs(got, want, 1e-10) {
		t.Fatalf("got %v, want %v", got, want)
	}
	put := mustPrice(t, 100, 100, 1, 0.2, false)
	if !scalar.EqualWithinAbs(put, want, 1e-10) {
		t.Fatalf("put got %v, want %v", put, want)
	}
}

func TestPutCallParity(t *testing.T) {
	forward := 100.0
	for _, strike := range []float64{60, 80, 100, 120, 150} {
		for _, vol := range []float64{0.1, 0.3, 0.8} {
			for _, tau := range []float64{0.25, 1, 4} {
				call := mustPrice(t, forward, strike, tau, vol, true)
				put := mustPrice(t, forward, strike, tau, vol, false)
				if !scalar.EqualWithinAbs(call-put, forward-strike, 1e-9) {
					t.Errorf("K=%v vol=%v t=%v: call-put = %v, want %v", strike, vol, tau, call-put, forward-strike)
				}
			}
		}
	}
}

func TestPriceIncreasesWithVolatility(t *testing.T) {
	for _, isCall := range []bool{true, false} {
		prev := -1.0
		for _, vol := range []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6} {
			p := mustPrice(t, 100, 120, 1, vol, isCall)
			if p <= prev {
				t.Errorf("isCall=%v: price %v at vol %v not above %v", isCall, p, vol, prev)
			}
			prev = p
		}
	}
}

func TestCallDeltaIncreasesWithForward(t *testing.T) {
	prev := -1.0
	for forward := 50.0; forward <= 150; forward += 10 {
		d, err := Delta(forward, 100, 1, 0.2, true)
		if err != nil {
			t.Fatal(err)
		}
		if d <= prev || d < 0 || d > 1 {
			t.Errorf("forward %v: delta %v after %v", forward, d, prev)
		}
		prev = d
	}
}

func TestPriceIntrinsicLimits(t *testing.T) {
	tests := []struct {
		name            string
		forward, strike float64
		tau, vol        float64
	}{
		{"zero vol itm", 120, 100, 1, 0},
		{"zero vol otm", 80, 100, 1, 0},
		{"zero time itm", 120, 100, 0, 0.3},
		{"zero time otm", 80, 100, 0, 0.3},
		{"zero time atm", 100, 100, 0, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := mustPrice(t, tt.forward, tt.strike, tt.tau, tt.vol, true)
			put := mustPrice(t, tt.forward, tt.strike, tt.tau, tt.vol, false)
			if call != math.Max(tt.forward-tt.strike, 0) {
				t.Errorf("call %v", call)
			}
			if put != math.Max(tt.strike-tt.forward, 0) {
				t.Errorf("put %v", put)
			}
		})
	}
}

func TestPriceDegenerateRegimes(t *testing.T) {
	// infinite vol times zero time is replaced by sigmaRootT = 1
	got := mustPrice(t, 100, 100, 0, math.Inf(1), true)
	want := 100 * (2*probability.NormalCDF(0.5) - 1)
	if !scalar.EqualWithinAbs(got, want, 1e-10) {
		t.Errorf("NaN sigmaRootT: got %v, want %v", got, want)
	}

	if p := mustPrice(t, 2e13, 3e13, 1, 0.2, true); p != 0 {
		t.Errorf("both large call: got %v, want 0", p)
	}
	if p := mustPrice(t, 2e13, 3e13, 1, 0.2, false); p != 3e13 {
		t.Errorf("both large put: got %v, want 3e13", p)
	}
	if p := mustPrice(t, 100, 80, 1, 1e14, true); p != 100 {
		t.Errorf("huge vol call: got %v, want forward", p)
	}
	if p := mustPrice(t, 100, 80, 1, 1e14, false); p != 80 {
		t.Errorf("huge vol put: got %v, want strike", p)
	}
}

func TestGreeksDegenerateRegimes(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (float64, error)
		want float64
	}{
		{"delta zero vol atm call", func() (float64, error) { return Delta(100, 100, 1, 0, true) }, 0.5},
		{"delta zero vol atm put", func() (float64, error) { return Delta(100, 100, 1, 0, false) }, -0.5},
		{"delta zero vol itm call", func() (float64, error) { return Delta(120, 100, 1, 0, true) }, 1},
		{"delta zero vol itm put", func() (float64, error) { return Delta(80, 100, 1, 0, false) }, -1},
		{"delta huge vol call", func() (float64, error) { return Delta(100, 80, 1, 1e14, true) }, 1},
		{"delta huge vol put", func() (float64, error) { return Delta(100, 80, 1, 1e14, false) }, 0},
		{"dual delta zero vol atm call", func() (float64, error) { return DualDelta(100, 100, 1, 0, true) }, -0.5},
		{"dual delta huge vol put", func() (float64, error) { return DualDelta(100, 80, 1, 1e14, false) }, 1},
		{"simple delta zero vol otm call", func() (float64, error) { return SimpleDelta(80, 100, 1, 0, true) }, 0},
		{"simple delta atm put", func() (float64, error) { return SimpleDelta(100, 100, 1, 0.2, false) }, -0.5},
		{"gamma zero vol otm", func() (float64, error) { return Gamma(80, 100, 1, 0) }, 0},
		{"gamma zero forward", func() (float64, error) { return Gamma(0, 100, 1, 0.2) }, 0},
		{"dual gamma zero strike", func() (float64, error) { return DualGamma(100, 0, 1, 0.2) }, 0},
		{"vega zero vol otm", func() (float64, error) { return Vega(80, 100, 1, 0) }, 0},
		{"vega zero vol atm", func() (float64, error) { return Vega(100, 100, 1, 0) }, 100 * probability.NormalPDF(0)},
		{"vega huge vol", func() (float64, error) { return Vega(100, 100, 1, 1e14) }, 0},
		{"vanna zero vol atm", func() (float64, error) { return Vanna(100, 100, 4, 0) }, probability.NormalPDF(0)},
		{"vomma zero vol atm", func() (float64, error) { return Vomma(100, 100, 1, 0) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoNaNAtExtremes(t *testing.T) {
	type greek func(f, k, tau, vol float64, isCall bool) (float64, error)
	noFlag := func(g func(f, k, tau, vol float64) (float64, error)) greek {
		return func(f, k, tau, vol float64, _ bool) (float64, error) { return g(f, k, tau, vol) }
	}
	withRate := func(g func(f, k, tau, vol float64, isCall bool, rate float64) (float64, error)) greek {
		return func(f, k, tau, vol float64, isCall bool) (float64, error) { return g(f, k, tau, vol, isCall, 0.05) }
	}
	greeks := map[string]greek{
		"Price":          Price,
		"Delta":          Delta,
		"DualDelta":      DualDelta,
		"SimpleDelta":    SimpleDelta,
		"Gamma":          noFlag(Gamma),
		"DualGamma":      noFlag(DualGamma),
		"CrossGamma":     noFlag(CrossGamma),
		"Vega":           noFlag(Vega),
		"Vanna":          noFlag(Vanna),
		"DualVanna":      noFlag(DualVanna),
		"Vomma":          noFlag(Vomma),
		"DriftlessTheta": noFlag(DriftlessTheta),
		"Theta":          withRate(Theta),
		"ThetaMod":       withRate(ThetaMod),
	}
	levels := []float64{0, 100, 2e13}
	for name, g := range greeks {
		for _, f := range levels {
			for _, k := range levels {
				for _, tau := range []float64{0, 1} {
					for _, vol := range []float64{0, 0.2, 1e14, math.Inf(1)} {
						if tau == 0 && math.IsInf(vol, 1) {
							continue
						}
						for _, isCall := range []bool{true, false} {
							v, err := g(f, k, tau, vol, isCall)
							if err != nil {
								t.Fatalf("%s(%v, %v, %v, %v, %v): %v", name, f, k, tau, vol, isCall, err)
							}
							if math.IsNaN(v) {
								t.Errorf("%s(%v, %v, %v, %v, %v) is NaN", name, f, k, tau, vol, isCall)
							}
						}
					}
				}
			}
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"negative forward", func() error { _, err := Price(-1, 100, 1, 0.2, true); return err }},
		{"negative strike", func() error { _, err := Delta(100, -1, 1, 0.2, true); return err }},
		{"negative time", func() error { _, err := Vega(100, 100, -1, 0.2); return err }},
		{"NaN vol", func() error { _, err := Gamma(100, 100, 1, math.NaN()); return err }},
		{"NaN rate", func() error { _, err := Theta(100, 100, 1, 0.2, true, math.NaN()); return err }},
		{"call delta above one", func() error { _, err := ImpliedStrike(1.5, true, 100, 1, 0.2); return err }},
		{"call delta negative", func() error { _, err := ImpliedStrike(-0.3, true, 100, 1, 0.2); return err }},
		{"put delta positive", func() error { _, err := ImpliedStrike(0.3, false, 100, 1, 0.2); return err }},
		{"NaN delta", func() error { _, err := ImpliedStrikeWithDerivatives(math.NaN(), true, 100, 1, 0.2); return err }},
		{"negative price", func() error { _, err := ImpliedVolatility(-1, 100, 100, 1, true); return err }},
		{"below intrinsic", func() error { _, err := ImpliedVolatility(10, 120, 100, 1, true); return err }},
		{"negative guess", func() error { _, err := ImpliedVolatilityWithGuess(5, 100, 110, 1, true, -1); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestPriceAdjoint(t *testing.T) {
	for _, isCall := range []bool{true, false} {
		got, err := PriceAdjoint(105, 95, 0.5, 0.25, isCall)
		if err != nil {
			t.Fatal(err)
		}
		p := mustPrice(t, 105, 95, 0.5, 0.25, isCall)
		d, _ := Delta(105, 95, 0.5, 0.25, isCall)
		dd, _ := DualDelta(105, 95, 0.5, 0.25, isCall)
		v, _ := Vega(105, 95, 0.5, 0.25)
		if got.Value != p {
			t.Errorf("value %v, want %v", got.Value, p)
		}
		want := []float64{d, dd, v}
		for i := range want {
			if got.Derivatives[i] != want[i] {
				t.Errorf("derivative %d: got %v, want %v", i, got.Derivatives[i], want[i])
			}
		}
	}
}

// firstOrder checks an analytic derivative against a central finite difference.
func firstOrder(t *testing.T, name string, analytic float64, f func(float64) float64, x float64) {
	t.Helper()
	numeric := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: 1e-5})
	if !scalar.EqualWithinAbsOrRel(analytic, numeric, 1e-7, 1e-5) {
		t.Errorf("%s: analytic %v, finite difference %v", name, analytic, numeric)
	}
}

func TestGreeksMatchFiniteDifferences(t *testing.T) {
	cases := []struct {
		forward, strike, tau, vol float64
	}{
		{100, 100, 1, 0.2},
		{100, 120, 0.5, 0.35},
		{100, 80, 2, 0.15},
		{50, 65, 3, 0.6},
	}
	for _, c := range cases {
		for _, isCall := range []bool{true, false} {
			F, K, tau, vol := c.forward, c.strike, c.tau, c.vol
			priceF := func(f float64) float64 { p, _ := Price(f, K, tau, vol, isCall); return p }
			priceK := func(k float64) float64 { p, _ := Price(F, k, tau, vol, isCall); return p }
			priceV := func(v float64) float64 { p, _ := Price(F, K, tau, v, isCall); return p }
			priceT := func(s float64) float64 { p, _ := Price(F, K, s, vol, isCall); return p }
			deltaV := func(v float64) float64 { d, _ := Delta(F, K, tau, v, isCall); return d }
			deltaF := func(f float64) float64 { d, _ := Delta(f, K, tau, vol, isCall); return d }
			deltaK := func(k float64) float64 { d, _ := Delta(F, k, tau, vol, isCall); return d }
			dualK := func(k float64) float64 { d, _ := DualDelta(F, k, tau, vol, isCall); return d }
			dualV := func(v float64) float64 { d, _ := DualDelta(F, K, tau, v, isCall); return d }
			vegaV := func(v float64) float64 { g, _ := Vega(F, K, tau, v); return g }

			delta, _ := Delta(F, K, tau, vol, isCall)
			dual, _ := DualDelta(F, K, tau, vol, isCall)
			gamma, _ := Gamma(F, K, tau, vol)
			dualGamma, _ := DualGamma(F, K, tau, vol)
			crossGamma, _ := CrossGamma(F, K, tau, vol)
			vega, _ := Vega(F, K, tau, vol)
			vanna, _ := Vanna(F, K, tau, vol)
			dualVanna, _ := DualVanna(F, K, tau, vol)
			vomma, _ := Vomma(F, K, tau, vol)
			theta, _ := DriftlessTheta(F, K, tau, vol)

			firstOrder(t, "delta", delta, priceF, F)
			firstOrder(t, "dual delta", dual, priceK, K)
			firstOrder(t, "vega", vega, priceV, vol)
			firstOrder(t, "driftless theta", theta, func(s float64) float64 { return -priceT(s) }, tau)
			firstOrder(t, "gamma", gamma, deltaF, F)
			firstOrder(t, "dual gamma", dualGamma, dualK, K)
			firstOrder(t, "cross gamma", crossGamma, deltaK, K)
			firstOrder(t, "vanna", vanna, deltaV, vol)
			firstOrder(t, "dual vanna", dualVanna, dualV, vol)
			firstOrder(t, "vomma", vomma, vegaV, vol)
		}
	}
}

func TestVolgaIsVomma(t *testing.T) {
	a, _ := Vomma(100, 110, 1, 0.3)
	b, _ := Volga(100, 110, 1, 0.3)
	if a != b {
		t.Fatalf("Volga %v differs from Vomma %v", b, a)
	}
}

func TestSpotTheta(t *testing.T) {
	// Black-Scholes call, spot 100, strike 100, rate 5%, vol 20%, one year
	spot, rate := 100.0, 0.05
	forward := spot * math.Exp(rate)
	got, err := Theta(forward, 100, 1, 0.2, true, rate)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(got, -6.414023, 1e-4) {
		t.Fatalf("got %v, want -6.414", got)
	}
}

func TestThetaModHoldsForwardFixed(t *testing.T) {
	const F, K, vol, rate = 100.0, 90.0, 0.3, 0.03
	for _, isCall := range []bool{true, false} {
		got, err := ThetaMod(F, K, 2, vol, isCall, rate)
		if err != nil {
			t.Fatal(err)
		}
		pv := func(tau float64) float64 {
			p, _ := Price(F, K, tau, vol, isCall)
			return -math.Exp(-rate*tau) * p
		}
		firstOrder(t, "theta mod", got, pv, 2)
	}
}
