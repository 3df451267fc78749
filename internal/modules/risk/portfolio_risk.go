package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formulas"
)

// DrawdownPoint is one snapshot in the drawdown series
type DrawdownPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Value       float64   `json:"value"`
	RunningMax  float64   `json:"running_max"`
	DrawdownPct float64   `json:"drawdown_pct"`
}

// PortfolioRisk is the result of ComputeDrawdownAndRatios
type PortfolioRisk struct {
	CurrentDrawdownPct *float64        `json:"current_drawdown_pct"`
	MaxDrawdownPct     *float64        `json:"max_drawdown_pct"`
	ATHValue           *float64        `json:"ath_value"`
	SortinoRatio       *float64        `json:"sortino_ratio"`
	Beta               *float64        `json:"beta"`
	PeriodsInDrawdown  int             `json:"periods_in_drawdown"`
	Drawdown           []DrawdownPoint `json:"drawdown"`
	Snapshots          int             `json:"snapshots"`
	BetaObservations   int             `json:"beta_observations"`
}

// ComputeDrawdownAndRatios derives drawdown, Sortino and beta from time-ordered snapshots.
//
// Drawdown needs MinSnapshotsDrawdown snapshots; Sortino and beta need MinSnapshotsRatios.
// The reference series is sampled at each snapshot date (last close on or before it) so
// both return series share the snapshot cadence.
func (e *Engine) ComputeDrawdownAndRatios(snapshots []domain.PortfolioSnapshot, riskFreeAnnual float64, reference []domain.DailyClose) (PortfolioRisk, error) {
	result := PortfolioRisk{Drawdown: []DrawdownPoint{}, Snapshots: len(snapshots)}

	values := make([]float64, len(snapshots))
	for i, s := range snapshots {
		if i > 0 && !s.Timestamp.After(snapshots[i-1].Timestamp) {
			return PortfolioRisk{}, fmt.Errorf("snapshot %d at %s: %w", i, s.Timestamp.Format(time.RFC3339), domain.ErrSnapshotOutOfOrder)
		}
		if !(s.TotalValueBase > 0) {
			return PortfolioRisk{}, &domain.RangeError{Field: "total_value_base", Code: s.ID, Value: s.TotalValueBase}
		}
		values[i] = s.TotalValueBase
	}

	if len(snapshots) < e.cfg.MinSnapshotsDrawdown || len(snapshots) < 2 {
		return result, nil
	}

	drawdowns, runningMax := formulas.DrawdownSeries(values)
	for i, s := range snapshots {
		result.Drawdown = append(result.Drawdown, DrawdownPoint{
			Timestamp:   s.Timestamp,
			Value:       values[i],
			RunningMax:  runningMax[i],
			DrawdownPct: drawdowns[i],
		})
	}

	dd, _ := formulas.CalculateDrawdownMetrics(values)
	result.CurrentDrawdownPct = domain.Float(dd.CurrentDrawdownPct)
	result.MaxDrawdownPct = domain.Float(dd.MaxDrawdownPct)
	result.ATHValue = domain.Float(dd.PeakValue)
	result.PeriodsInDrawdown = dd.PeriodsInDrawdown

	if len(snapshots) < e.cfg.MinSnapshotsRatios {
		return result, nil
	}

	periodReturns := formulas.CalculateReturns(values)
	if sortino, ok := formulas.SortinoRatio(periodReturns, riskFreeAnnual, e.cfg.SnapshotPeriodsPerYear); ok {
		result.SortinoRatio = &sortino
	}

	portfolioReturns, referenceReturns, err := e.alignReference(snapshots, values, reference)
	if err != nil {
		return PortfolioRisk{}, err
	}
	result.BetaObservations = len(portfolioReturns)
	if len(portfolioReturns) >= e.cfg.MinSnapshotsRatios-1 {
		if beta, ok := formulas.Beta(portfolioReturns, referenceReturns); ok {
			result.Beta = &beta
		}
	}

	return result, nil
}

// alignReference pairs consecutive snapshot returns with reference returns over the same
// dates. Snapshots without a reference close within ReferenceMaxLagDays break the chain.
func (e *Engine) alignReference(snapshots []domain.PortfolioSnapshot, values []float64, reference []domain.DailyClose) ([]float64, []float64, error) {
	if len(reference) == 0 {
		return nil, nil, nil
	}

	ref := make([]domain.DailyClose, len(reference))
	copy(ref, reference)
	sort.SliceStable(ref, func(i, j int) bool { return ref[i].Date.Before(ref[j].Date) })
	for _, c := range ref {
		if !(c.Close > 0) {
			return nil, nil, &domain.RangeError{Field: "reference_close", Code: "reference", Value: c.Close}
		}
	}

	maxLag := time.Duration(e.cfg.ReferenceMaxLagDays) * 24 * time.Hour
	sampled := make([]*float64, len(snapshots))
	for i, s := range snapshots {
		idx := sort.Search(len(ref), func(k int) bool { return ref[k].Date.After(s.Timestamp) }) - 1
		if idx < 0 || s.Timestamp.Sub(ref[idx].Date) > maxLag {
			continue
		}
		sampled[i] = domain.Float(ref[idx].Close)
	}

	var portfolioReturns, referenceReturns []float64
	for i := 1; i < len(snapshots); i++ {
		if sampled[i-1] == nil || sampled[i] == nil {
			continue
		}
		prev, cur := *sampled[i-1], *sampled[i]
		portfolioReturns = append(portfolioReturns, values[i]/values[i-1]-1)
		referenceReturns = append(referenceReturns, cur/prev-1)
	}
	return portfolioReturns, referenceReturns, nil
}
