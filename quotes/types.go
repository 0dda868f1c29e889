// Package quotes reads option and strip quotes from JSON and writes the
// evaluated results back.
package quotes

import (
	"fmt"
	"strings"
	"time"

	"github.com/bcdannyboy/blackvol/positions"
)

const dateLayout = "2006-01-02"

// Document is a quote file.
type Document struct {
	// AsOf anchors expiration dates; empty means today.
	AsOf    string        `json:"as_of,omitempty"`
	Options []OptionQuote `json:"options"`
	Strips  []StripQuote  `json:"strips"`
}

// LegQuote describes one option. Time to expiry comes from Expiry in years
// or, when that is zero, from ExpirationDate counted from the document date.
type LegQuote struct {
	Forward        float64  `json:"forward"`
	Strike         float64  `json:"strike"`
	Expiry         float64  `json:"expiry,omitempty"`
	ExpirationDate string   `json:"expiration_date,omitempty"`
	DiscountFactor *float64 `json:"discount_factor,omitempty"`
	OptionType     string   `json:"type"`
}

// OptionQuote is a single option and its observed present value.
type OptionQuote struct {
	ID string `json:"id"`
	LegQuote
	Price float64 `json:"price"`
}

// StripQuote is a set of options quoted together at one price.
type StripQuote struct {
	ID    string     `json:"id"`
	Legs  []LegQuote `json:"legs"`
	Price float64    `json:"price"`
}

// Output is the result file.
type Output struct {
	Options []positions.Result `json:"options"`
	Strips  []positions.Result `json:"strips"`
}

func (d *Document) asOf() (time.Time, error) {
	if d.AsOf == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(dateLayout, d.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse as_of date: %w", err)
	}
	return t, nil
}

func timeToMaturity(expirationDate string, asOf time.Time) (float64, error) {
	expDate, err := time.Parse(dateLayout, expirationDate)
	if err != nil {
		return 0, fmt.Errorf("failed to parse expiration date: %w", err)
	}
	years := expDate.Sub(asOf).Hours() / 24 / 365
	if years < 0 {
		return 0, fmt.Errorf("expiration date %s is before %s", expirationDate, asOf.Format(dateLayout))
	}
	return years, nil
}

// Leg converts the quote into a priceable option.
func (q LegQuote) Leg(asOf time.Time) (positions.SimpleOptionData, error) {
	var isCall bool
	switch strings.ToLower(q.OptionType) {
	case "call":
		isCall = true
	case "put":
		isCall = false
	default:
		return positions.SimpleOptionData{}, fmt.Errorf("unknown option type %q", q.OptionType)
	}

	expiry := q.Expiry
	if expiry == 0 && q.ExpirationDate != "" {
		var err error
		if expiry, err = timeToMaturity(q.ExpirationDate, asOf); err != nil {
			return positions.SimpleOptionData{}, err
		}
	}

	df := 1.0
	if q.DiscountFactor != nil {
		df = *q.DiscountFactor
	}

	leg := positions.SimpleOptionData{
		Forward:        q.Forward,
		Strike:         q.Strike,
		TimeToExpiry:   expiry,
		DiscountFactor: df,
		IsCall:         isCall,
	}
	if err := leg.Validate(); err != nil {
		return positions.SimpleOptionData{}, err
	}
	return leg, nil
}

// Batch is a document split into batch jobs.
type Batch struct {
	Options []positions.OptionJob
	Strips  []positions.StripJob
	// Quotes that could not be converted, as failed result rows.
	RejectedOptions []positions.Result
	RejectedStrips  []positions.Result
}

// Jobs converts the document into batch jobs.
func (d *Document) Jobs() (*Batch, error) {
	asOf, err := d.asOf()
	if err != nil {
		return nil, err
	}

	b := &Batch{}
	for _, q := range d.Options {
		leg, err := q.Leg(asOf)
		if err != nil {
			b.RejectedOptions = append(b.RejectedOptions, positions.Result{ID: q.ID, Price: q.Price, Error: err.Error()})
			continue
		}
		b.Options = append(b.Options, positions.OptionJob{ID: q.ID, Leg: leg, Price: q.Price})
	}

strips:
	for _, s := range d.Strips {
		legs := make([]positions.SimpleOptionData, 0, len(s.Legs))
		for i, lq := range s.Legs {
			leg, err := lq.Leg(asOf)
			if err != nil {
				b.RejectedStrips = append(b.RejectedStrips, positions.Result{ID: s.ID, Price: s.Price, Error: fmt.Sprintf("leg %d: %v", i, err)})
				continue strips
			}
			legs = append(legs, leg)
		}
		b.Strips = append(b.Strips, positions.StripJob{ID: s.ID, Legs: legs, Price: s.Price})
	}
	return b, nil
}
