// Package portfolio rolls valued holdings up into portfolio totals, warnings,
// per-holding recommendations and rebalancing suggestions.
package portfolio

import (
	"fmt"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/rs/zerolog"
)

// Aggregator computes portfolio-level metrics from valued holdings
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a portfolio aggregator
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{
		log: log.With().Str("service", "portfolio_aggregator").Logger(),
	}
}

// Aggregate returns portfolio metrics and a copy of the holdings with weights filled in.
//
// Weights need the portfolio total, so the total is summed over valid holdings first and
// weights are assigned in a second pass. The portfolio weekly return is the value-weighted
// mean of holding weekly returns. That differs from (totalNow - totalPrior) / totalPrior
// whenever quantities changed since the prior price; the weighted mean is kept on purpose.
func (a *Aggregator) Aggregate(valued []domain.ValuedHolding, thresholds domain.Thresholds) (domain.PortfolioMetrics, []domain.ValuedHolding) {
	metrics := domain.PortfolioMetrics{
		Warnings: []string{},
		Notes:    []string{},
	}

	for _, v := range valued {
		if !v.Valid() {
			metrics.InvalidHoldings++
			metrics.Notes = append(metrics.Notes, fmt.Sprintf("No usable price data for %s", v.Code))
			continue
		}
		metrics.ValidHoldings++
		metrics.TotalValueBase += v.ValueInBase
		if v.CashReserve {
			metrics.CashReserveBase += v.ValueInBase
		}
	}

	total := metrics.TotalValueBase
	weighted := make([]domain.ValuedHolding, len(valued))
	for i, v := range valued {
		v.WeightPct = 0
		if v.Valid() && total > 0 {
			v.WeightPct = 100 * v.ValueInBase / total
			metrics.WeeklyReturnPct += (v.ValueInBase / total) * v.WeeklyReturnPct
		}
		v.WeightDeviationPct = v.WeightPct - v.TargetWeightPct
		weighted[i] = v
	}

	if total > 0 {
		metrics.CashReservePct = 100 * metrics.CashReserveBase / total
	}

	if metrics.WeeklyReturnPct < thresholds.WeeklyLossPct {
		metrics.Warnings = append(metrics.Warnings, fmt.Sprintf(
			"Weekly loss alert: portfolio return %.2f%% is below the %.2f%% threshold",
			metrics.WeeklyReturnPct, thresholds.WeeklyLossPct))
	}
	metrics.Warnings = append(metrics.Warnings, PositionSizeWarnings(weighted, thresholds.MaxPositionWeightPct)...)

	a.log.Debug().
		Float64("total_value_base", total).
		Int("valid", metrics.ValidHoldings).
		Int("invalid", metrics.InvalidHoldings).
		Float64("weekly_return_pct", metrics.WeeklyReturnPct).
		Msg("Aggregated portfolio")

	return metrics, weighted
}

// PositionSizeWarnings flags valid holdings whose weight exceeds maxWeightPct
func PositionSizeWarnings(holdings []domain.ValuedHolding, maxWeightPct float64) []string {
	var warnings []string
	for _, h := range holdings {
		if h.Valid() && h.WeightPct > maxWeightPct {
			warnings = append(warnings, fmt.Sprintf(
				"Position size: %s is %.1f%% of the portfolio (max %.0f%%)", h.Code, h.WeightPct, maxWeightPct))
		}
	}
	return warnings
}
