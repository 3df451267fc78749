package domain

// ValuedHolding is a holding joined with its quote and the derived valuation fields
type ValuedHolding struct {
	Code            string        `json:"code"`
	Class           AssetClass    `json:"asset_class"`
	DisplayName     string        `json:"display_name"`
	Quantity        float64       `json:"quantity"`
	TargetWeightPct float64       `json:"target_weight_pct"`
	CashReserve     bool          `json:"cash_reserve"`
	CurrentPrice    float64       `json:"current_price"`
	PriorPrice      *float64      `json:"prior_price,omitempty"`
	Currency        QuoteCurrency `json:"currency"`

	ValueInInstrumentCurrency float64 `json:"value_in_instrument_currency"`
	ValueInBase               float64 `json:"value_in_base"`
	WeightPct                 float64 `json:"weight_pct"`
	WeightDeviationPct        float64 `json:"weight_deviation_pct"`
	WeeklyReturnPct           float64 `json:"weekly_return_pct"`
}

// Valid reports whether the holding takes part in totals and weights
func (v ValuedHolding) Valid() bool {
	return v.CurrentPrice > 0 && v.Quantity > 0
}

// UnitPriceBase returns the price of one unit in base currency, 0 for invalid holdings
func (v ValuedHolding) UnitPriceBase() float64 {
	if !v.Valid() {
		return 0
	}
	return v.ValueInBase / v.Quantity
}
