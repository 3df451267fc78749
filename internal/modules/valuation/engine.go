// Package valuation turns holdings and quotes into per-holding valuation records.
package valuation

import (
	"math"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/rs/zerolog"
)

// Engine values holdings against a quote table. It keeps no state between calls.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a valuation engine
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("service", "valuation").Logger(),
	}
}

// Value builds one ValuedHolding per holding, in input order. Weights are left at zero;
// they need the portfolio total and are filled in by the aggregator.
//
// A missing quote yields a zero price, which makes the holding invalid. USD and USDT
// values are converted with the single fxRate.
func (e *Engine) Value(holdings []domain.Holding, table quotes.Table, fxRate float64) ([]domain.ValuedHolding, error) {
	if !(fxRate > 0) || math.IsInf(fxRate, 0) {
		return nil, &domain.ConfigError{Field: "fx_rate", Reason: "must be a positive number"}
	}

	valued := make([]domain.ValuedHolding, 0, len(holdings))
	for _, h := range holdings {
		if err := domain.ValidateHolding(h); err != nil {
			return nil, err
		}

		q, ok := table.Lookup(h.Code())
		if !ok {
			q = domain.PriceQuote{
				DisplayName: domain.DisplayCode(h.Code()),
				Currency:    domain.DefaultQuoteCurrency(h.Class()),
			}
			e.log.Debug().Str("code", h.Code()).Msg("No quote for holding")
		}
		if q.CurrentPrice < 0 || math.IsNaN(q.CurrentPrice) {
			return nil, &domain.RangeError{Field: "current_price", Code: h.Code(), Value: q.CurrentPrice}
		}

		valued = append(valued, valueOne(h, q, fxRate))
	}

	return valued, nil
}

func valueOne(h domain.Holding, q domain.PriceQuote, fxRate float64) domain.ValuedHolding {
	v := domain.ValuedHolding{
		Code:            h.Code(),
		Class:           h.Class(),
		DisplayName:     q.DisplayName,
		Quantity:        h.Quantity(),
		TargetWeightPct: h.TargetWeightPct(),
		CashReserve:     h.CashReserve(),
		CurrentPrice:    q.CurrentPrice,
		Currency:        q.Currency,
	}
	if q.PriorPrice != nil {
		prior := *q.PriorPrice
		v.PriorPrice = &prior
	}

	v.ValueInInstrumentCurrency = v.Quantity * v.CurrentPrice
	v.ValueInBase = ToBase(v.ValueInInstrumentCurrency, v.Currency, fxRate)

	if v.Valid() {
		v.WeeklyReturnPct = WeeklyReturnPct(v.CurrentPrice, v.PriorPrice)
	}
	v.WeightDeviationPct = -v.TargetWeightPct

	return v
}

// ToBase converts an amount in the quote currency to base currency
func ToBase(amount float64, currency domain.QuoteCurrency, fxRate float64) float64 {
	if currency == domain.CurrencyBase {
		return amount
	}
	return amount * fxRate
}

// WeeklyReturnPct is the percent change from prior to current; 0 without a positive prior price
func WeeklyReturnPct(current float64, prior *float64) float64 {
	if prior == nil || !(*prior > 0) {
		return 0
	}
	return 100 * (current - *prior) / *prior
}
