// Package risk computes volatility, Sharpe, correlation and diversification from daily
// price history, and drawdown, Sortino and beta from portfolio snapshots.
//
// Short or missing data never fails a computation: the affected metrics are nil.
// Only out-of-range inputs (non-positive prices or values) are errors.
package risk

import (
	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formulas"
	"github.com/rs/zerolog"
)

// Config holds the statistical minimums and warning thresholds
type Config struct {
	MinInstruments         int     // instruments needed for holding-level risk
	MinCloses              int     // closes needed per instrument
	MinAlignedReturns      int     // aligned return rows needed after the date join
	MinSnapshotsDrawdown   int     // snapshots needed for drawdown
	MinSnapshotsRatios     int     // snapshots needed for Sortino and beta
	SnapshotPeriodsPerYear int     // annualization factor for snapshot returns
	ReferenceMaxLagDays    int     // oldest reference close accepted for a snapshot
	RollingWindow          int     // window of the rolling volatility series
	HighCorrelation        float64 // |corr| above this is flagged
	HighVolatilityPct      float64 // monthly volatility above this is flagged
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	t := domain.DefaultThresholds()
	return Config{
		MinInstruments:         2,
		MinCloses:              6,
		MinAlignedReturns:      5,
		MinSnapshotsDrawdown:   2,
		MinSnapshotsRatios:     5,
		SnapshotPeriodsPerYear: formulas.WeeksPerYear,
		ReferenceMaxLagDays:    7,
		RollingWindow:          5,
		HighCorrelation:        t.HighCorrelation,
		HighVolatilityPct:      t.HighVolatilityPct,
	}
}

// WithThresholds returns a copy of c using the portfolio's warning thresholds
func (c Config) WithThresholds(t domain.Thresholds) Config {
	c.HighCorrelation = t.HighCorrelation
	c.HighVolatilityPct = t.HighVolatilityPct
	return c
}

// Engine computes risk metrics. It is safe for concurrent use.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// NewEngine creates a risk engine
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: log.With().Str("service", "risk").Logger(),
	}
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}
