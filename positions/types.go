package positions

// SimpleOptionData is one European option leg priced with the Black formula
// on its forward. DiscountFactor converts the forward price to a present value.
type SimpleOptionData struct {
	Forward        float64 `json:"forward"`
	Strike         float64 `json:"strike"`
	TimeToExpiry   float64 `json:"expiry"`
	DiscountFactor float64 `json:"discount_factor"`
	IsCall         bool    `json:"is_call"`
}

// Greeks are present value sensitivities of a leg or of a whole strip.
type Greeks struct {
	Price     float64 `json:"price"`
	Delta     float64 `json:"delta"`
	DualDelta float64 `json:"dual_delta"`
	Gamma     float64 `json:"gamma"`
	Vega      float64 `json:"vega"`
	Theta     float64 `json:"theta"`
	Vanna     float64 `json:"vanna"`
	Vomma     float64 `json:"vomma"`
}

// OptionJob asks for the implied volatility of a single quoted leg.
type OptionJob struct {
	ID    string
	Leg   SimpleOptionData
	Price float64
}

// StripJob asks for the single volatility that reprices every leg of a strip.
type StripJob struct {
	ID    string
	Legs  []SimpleOptionData
	Price float64
}

// Result is one row of a batch evaluation. Error is set instead of the
// numbers when the item could not be solved.
type Result struct {
	ID                string  `json:"id"`
	Price             float64 `json:"price"`
	ImpliedVolatility float64 `json:"implied_volatility"`
	Greeks            *Greeks `json:"greeks,omitempty"`
	Error             string  `json:"error,omitempty"`
}
