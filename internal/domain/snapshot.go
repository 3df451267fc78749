package domain

import "time"

// HoldingBreakdown is one holding's contribution to a snapshot
type HoldingBreakdown struct {
	ValueBase float64 `json:"value_base" msgpack:"value_base"`
	Quantity  float64 `json:"quantity" msgpack:"quantity"`
	Price     float64 `json:"price" msgpack:"price"`
}

// PortfolioSnapshot is a point-in-time portfolio value
type PortfolioSnapshot struct {
	ID             string                      `json:"id"`
	Timestamp      time.Time                   `json:"timestamp"`
	TotalValueBase float64                     `json:"total_value_base"`
	Breakdown      map[string]HoldingBreakdown `json:"breakdown,omitempty"`
}

// Period returns the ISO year and week of the snapshot, evaluated in UTC
func (s PortfolioSnapshot) Period() (year, week int) {
	return PeriodOf(s.Timestamp)
}

// PeriodOf returns the snapshot policy period (ISO year, ISO week in UTC) of t
func PeriodOf(t time.Time) (year, week int) {
	return t.UTC().ISOWeek()
}

// SamePeriod reports whether a and b fall in the same snapshot period
func SamePeriod(a, b time.Time) bool {
	ay, aw := PeriodOf(a)
	by, bw := PeriodOf(b)
	return ay == by && aw == bw
}

// BreakdownFrom builds a snapshot breakdown from the valid holdings
func BreakdownFrom(holdings []ValuedHolding) map[string]HoldingBreakdown {
	out := make(map[string]HoldingBreakdown, len(holdings))
	for _, h := range holdings {
		if !h.Valid() {
			continue
		}
		out[h.Code] = HoldingBreakdown{
			ValueBase: h.ValueInBase,
			Quantity:  h.Quantity,
			Price:     h.CurrentPrice,
		}
	}
	return out
}
