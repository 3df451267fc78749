// Package refresh runs the valuation pipeline and owns the refresh lifecycle:
// fetch, value, aggregate, compute risk, then optionally record a weekly snapshot.
package refresh

import (
	"fmt"
	"sort"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/benchmark"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/holdings"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/portfolio"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/risk"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/valuation"
	"github.com/rs/zerolog"
)

// Inputs are everything one pipeline run consumes
type Inputs struct {
	Portfolio *holdings.Portfolio
	Market    *quotes.Resolved
	Snapshots []domain.PortfolioSnapshot // ascending by time
}

// Result is the output of one successful refresh
type Result struct {
	RunID           string                     `json:"run_id"`
	ComputedAt      time.Time                  `json:"computed_at"`
	BaseCurrency    string                     `json:"base_currency"`
	FXRate          float64                    `json:"fx_rate"`
	Holdings        []domain.ValuedHolding     `json:"holdings"`
	Metrics         domain.PortfolioMetrics    `json:"metrics"`
	HoldingRisk     risk.HoldingRisk           `json:"holding_risk"`
	PortfolioRisk   risk.PortfolioRisk         `json:"portfolio_risk"`
	Recommendations []portfolio.Recommendation `json:"recommendations"`
	Rebalancing     []portfolio.Suggestion     `json:"rebalancing"`
	Benchmark       benchmark.Comparison       `json:"benchmark"`
	Thresholds      domain.Thresholds          `json:"thresholds"`
	Snapshot        *domain.PortfolioSnapshot  `json:"snapshot,omitempty"` // recorded by this refresh
}

// StageError reports which stage a pipeline failure came from
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline runs Valuing, Aggregating and ComputingRisk. It holds no state between runs.
type Pipeline struct {
	valuation  *valuation.Engine
	aggregator *portfolio.Aggregator
	riskConfig risk.Config
	log        zerolog.Logger
}

// NewPipeline creates a pipeline
func NewPipeline(riskConfig risk.Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		valuation:  valuation.NewEngine(log),
		aggregator: portfolio.NewAggregator(log),
		riskConfig: riskConfig,
		log:        log.With().Str("service", "refresh_pipeline").Logger(),
	}
}

// Compute runs the pure part of a refresh. onStage, when non-nil, is called as each
// stage starts. Missing data degrades to nil metrics; only fatal input errors fail.
func (p *Pipeline) Compute(in Inputs, onStage func(State)) (*Result, error) {
	if in.Portfolio == nil || in.Market == nil {
		return nil, &StageError{Stage: StateValuing, Err: fmt.Errorf("pipeline inputs are incomplete")}
	}
	enter := func(s State) {
		if onStage != nil {
			onStage(s)
		}
	}
	th := in.Portfolio.Thresholds
	rf := in.Portfolio.Settings.RiskFreeRate

	enter(StateValuing)
	valued, err := p.valuation.Value(in.Portfolio.Holdings, in.Market.Quotes, in.Market.FXRate)
	if err != nil {
		return nil, &StageError{Stage: StateValuing, Err: err}
	}

	enter(StateAggregating)
	metrics, weighted := p.aggregator.Aggregate(valued, th)
	metrics.Notes = append(metrics.Notes, in.Market.Notes...)

	enter(StateComputingRisk)
	engine := risk.NewEngine(p.riskConfig.WithThresholds(th), p.log)

	holdingRisk, err := engine.ComputeRisk(riskSeries(weighted, in.Market.History), riskWeights(weighted), rf)
	if err != nil {
		return nil, &StageError{Stage: StateComputingRisk, Err: err}
	}
	portfolioRisk, err := engine.ComputeDrawdownAndRatios(in.Snapshots, rf, referenceSeries(in))
	if err != nil {
		return nil, &StageError{Stage: StateComputingRisk, Err: err}
	}

	metrics.VolatilityMonthlyPct = holdingRisk.VolatilityMonthlyPct
	metrics.SharpeRatio = holdingRisk.SharpeRatio
	metrics.DiversificationScore = holdingRisk.DiversificationScore
	metrics.SortinoRatio = portfolioRisk.SortinoRatio
	metrics.BetaVsReference = portfolioRisk.Beta
	metrics.CurrentDrawdownPct = portfolioRisk.CurrentDrawdownPct
	metrics.MaxDrawdownPct = portfolioRisk.MaxDrawdownPct
	metrics.ATHValue = portfolioRisk.ATHValue
	metrics.Warnings = append(metrics.Warnings, holdingRisk.Warnings()...)

	if holdingRisk.VolatilityMonthlyPct == nil {
		metrics.Notes = append(metrics.Notes, "Not enough aligned price history for volatility and Sharpe")
	}
	if portfolioRisk.CurrentDrawdownPct == nil {
		metrics.Notes = append(metrics.Notes, "Drawdown needs at least 2 weekly snapshots")
	} else if portfolioRisk.SortinoRatio == nil && len(in.Snapshots) < p.riskConfig.MinSnapshotsRatios {
		metrics.Notes = append(metrics.Notes, fmt.Sprintf("Sortino and beta need at least %d weekly snapshots", p.riskConfig.MinSnapshotsRatios))
	}

	result := &Result{
		BaseCurrency:    in.Portfolio.Settings.BaseCurrency,
		FXRate:          in.Market.FXRate,
		Holdings:        weighted,
		Metrics:         metrics,
		HoldingRisk:     holdingRisk,
		PortfolioRisk:   portfolioRisk,
		Recommendations: portfolio.Recommend(weighted, th),
		Rebalancing:     portfolio.Rebalance(weighted, metrics.TotalValueBase, th.WeightDeviationPct),
		Benchmark:       benchmark.Compare(in.Snapshots, in.Market.Benchmarks),
		Thresholds:      th,
	}

	p.log.Debug().
		Float64("total_value_base", metrics.TotalValueBase).
		Int("warnings", len(metrics.Warnings)).
		Int("risk_observations", holdingRisk.Observations).
		Msg("Pipeline computed")

	return result, nil
}

// referenceSeries returns the beta reference: the explicit reference series, else the
// benchmark named by the portfolio's reference setting
func referenceSeries(in Inputs) []domain.DailyClose {
	if len(in.Market.Reference) > 0 {
		return in.Market.Reference
	}
	return in.Market.Benchmarks[in.Portfolio.Settings.Reference]
}

// riskSeries keeps the history of valid holdings only
func riskSeries(holdings []domain.ValuedHolding, history map[string][]domain.DailyClose) map[string][]domain.DailyClose {
	out := make(map[string][]domain.DailyClose, len(holdings))
	for _, h := range holdings {
		if !h.Valid() {
			continue
		}
		if series, ok := history[h.Code]; ok {
			out[h.Code] = series
		}
	}
	return out
}

func riskWeights(holdings []domain.ValuedHolding) map[string]float64 {
	out := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		if h.Valid() {
			out[h.Code] = h.WeightPct / 100
		}
	}
	return out
}

// SortedCodes returns the codes of a result's holdings, highest value first
func (r *Result) SortedCodes() []string {
	holdings := make([]domain.ValuedHolding, len(r.Holdings))
	copy(holdings, r.Holdings)
	sort.SliceStable(holdings, func(i, j int) bool { return holdings[i].ValueInBase > holdings[j].ValueInBase })

	codes := make([]string, len(holdings))
	for i, h := range holdings {
		codes[i] = h.Code
	}
	return codes
}
