package domain

// Thresholds are advisory limits that turn into warnings and recommendations
type Thresholds struct {
	WeeklyLossPct        float64 `json:"weekly_loss_threshold"`
	WeeklyGainPct        float64 `json:"weekly_gain_threshold"`
	WeightDeviationPct   float64 `json:"weight_deviation_threshold"`
	HighVolatilityPct    float64 `json:"high_volatility_threshold"`
	HighCorrelation      float64 `json:"high_correlation_threshold"`
	MaxPositionWeightPct float64 `json:"max_position_weight"`
}

// DefaultThresholds returns the stock threshold set
func DefaultThresholds() Thresholds {
	return Thresholds{
		WeeklyLossPct:        -4.0,
		WeeklyGainPct:        7.0,
		WeightDeviationPct:   5.0,
		HighVolatilityPct:    15.0,
		HighCorrelation:      0.7,
		MaxPositionWeightPct: 20.0,
	}
}

// PortfolioMetrics is the portfolio-level result of one refresh.
// Nil pointers mean the metric could not be computed from the available data.
type PortfolioMetrics struct {
	TotalValueBase  float64 `json:"total_value_base"`
	CashReserveBase float64 `json:"cash_reserve_base"`
	CashReservePct  float64 `json:"cash_reserve_pct"`
	WeeklyReturnPct float64 `json:"weekly_return_pct"`
	ValidHoldings   int     `json:"valid_holdings"`
	InvalidHoldings int     `json:"invalid_holdings"`

	VolatilityMonthlyPct *float64 `json:"volatility_monthly_pct"`
	SharpeRatio          *float64 `json:"sharpe_ratio"`
	SortinoRatio         *float64 `json:"sortino_ratio"`
	BetaVsReference      *float64 `json:"beta_vs_reference"`
	DiversificationScore *float64 `json:"diversification_score"`
	CurrentDrawdownPct   *float64 `json:"current_drawdown_pct"`
	MaxDrawdownPct       *float64 `json:"max_drawdown_pct"`
	ATHValue             *float64 `json:"ath_value"`

	Warnings []string `json:"warnings"`
	Notes    []string `json:"notes"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
