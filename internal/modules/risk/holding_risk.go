package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formulas"
	"golang.org/x/sync/errgroup"
)

// CorrelationMatrix is a symmetric matrix over Codes. Nil cells are undefined
// correlations (an instrument with constant returns).
type CorrelationMatrix struct {
	Codes  []string     `json:"codes"`
	Values [][]*float64 `json:"values"`
}

// CorrelationPair is one flagged pair
type CorrelationPair struct {
	Code1       string  `json:"code1"`
	Code2       string  `json:"code2"`
	Correlation float64 `json:"correlation"`
}

// HoldingRisk is the result of ComputeRisk
type HoldingRisk struct {
	VolatilityMonthlyPct *float64           `json:"volatility_monthly_pct"`
	SharpeRatio          *float64           `json:"sharpe_ratio"`
	DiversificationScore *float64           `json:"diversification_score"`
	CorrelationWarnings  []string           `json:"correlation_warnings"`
	HighCorrelations     []CorrelationPair  `json:"high_correlations"`
	VolatilityWarnings   []string           `json:"volatility_warnings"`
	Correlation          *CorrelationMatrix `json:"correlation,omitempty"`
	RollingVolatilityPct []float64          `json:"rolling_volatility_pct"`
	Instruments          []string           `json:"instruments"`
	Observations         int                `json:"observations"`
}

// Warnings returns all warnings in display order
func (r HoldingRisk) Warnings() []string {
	out := make([]string, 0, len(r.VolatilityWarnings)+len(r.CorrelationWarnings))
	out = append(out, r.VolatilityWarnings...)
	return append(out, r.CorrelationWarnings...)
}

type datedReturns struct {
	code    string
	returns map[time.Time]float64
}

// ComputeRisk derives holding-level risk from daily closes.
//
// Instruments with fewer than MinCloses closes are ignored; with fewer than MinInstruments
// left every metric is nil. Each instrument's return series is built independently, then
// the series are inner-joined on date so no return is invented for a missing day.
// weights are value weights per code and are renormalized over the included instruments.
func (e *Engine) ComputeRisk(series map[string][]domain.DailyClose, weights map[string]float64, riskFreeAnnual float64) (HoldingRisk, error) {
	result := emptyHoldingRisk()

	codes := make([]string, 0, len(series))
	for code, closes := range series {
		if len(closes) >= e.cfg.MinCloses {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	if len(codes) < e.cfg.MinInstruments {
		e.log.Debug().Int("instruments", len(codes)).Msg("Not enough price history for risk metrics")
		return result, nil
	}

	prepared := make([]datedReturns, len(codes))
	var g errgroup.Group
	for i, code := range codes {
		g.Go(func() error {
			returns, err := returnsByDate(code, series[code])
			if err != nil {
				return err
			}
			prepared[i] = datedReturns{code: code, returns: returns}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return HoldingRisk{}, err
	}

	dates := alignedDates(prepared)
	result.Instruments = codes
	result.Observations = len(dates)
	if len(dates) < e.cfg.MinAlignedReturns {
		e.log.Debug().Int("aligned", len(dates)).Msg("Not enough aligned returns for risk metrics")
		return result, nil
	}

	columns := make([][]float64, len(prepared))
	for j, p := range prepared {
		col := make([]float64, len(dates))
		for t, d := range dates {
			col[t] = p.returns[d]
		}
		columns[j] = col
	}

	if w, ok := normalizeWeights(codes, weights); ok {
		portfolioReturns := formulas.WeightedSum(columns, w)

		if vol, ok := formulas.MonthlyVolatility(portfolioReturns); ok {
			volPct := vol * 100
			result.VolatilityMonthlyPct = &volPct
			if volPct > e.cfg.HighVolatilityPct {
				result.VolatilityWarnings = append(result.VolatilityWarnings, fmt.Sprintf(
					"High volatility: monthly %.1f%% exceeds %.1f%%", volPct, e.cfg.HighVolatilityPct))
			}
		}
		if sharpe, ok := formulas.SharpeRatio(portfolioReturns, riskFreeAnnual); ok {
			result.SharpeRatio = &sharpe
		}
		result.RollingVolatilityPct = RollingVolatility(portfolioReturns, e.cfg.RollingWindow)
	}

	e.correlate(codes, columns, &result)

	return result, nil
}

func (e *Engine) correlate(codes []string, columns [][]float64, result *HoldingRisk) {
	n := len(codes)
	matrix := &CorrelationMatrix{Codes: codes, Values: make([][]*float64, n)}
	for i := range matrix.Values {
		matrix.Values[i] = make([]*float64, n)
		if variable(columns[i]) {
			matrix.Values[i][i] = domain.Float(1)
		}
	}

	sum, pairs := 0.0, 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			corr, ok := formulas.Pearson(columns[i], columns[j])
			if !ok {
				continue
			}
			matrix.Values[i][j] = domain.Float(corr)
			matrix.Values[j][i] = domain.Float(corr)
			sum += corr
			pairs++

			if math.Abs(corr) > e.cfg.HighCorrelation {
				result.HighCorrelations = append(result.HighCorrelations, CorrelationPair{
					Code1: codes[i], Code2: codes[j], Correlation: corr,
				})
				result.CorrelationWarnings = append(result.CorrelationWarnings,
					fmt.Sprintf("High correlation: %s-%s (%.2f)", codes[i], codes[j], corr))
			}
		}
	}

	result.Correlation = matrix
	if pairs > 0 {
		score := (1 - sum/float64(pairs)) * 100
		result.DiversificationScore = &score
	}
}

func emptyHoldingRisk() HoldingRisk {
	return HoldingRisk{
		CorrelationWarnings:  []string{},
		HighCorrelations:     []CorrelationPair{},
		VolatilityWarnings:   []string{},
		RollingVolatilityPct: []float64{},
		Instruments:          []string{},
	}
}

// returnsByDate keys each simple return by the date of the later close
func returnsByDate(code string, closes []domain.DailyClose) (map[time.Time]float64, error) {
	ordered := make([]domain.DailyClose, len(closes))
	copy(ordered, closes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	prices := make([]float64, len(ordered))
	for i, c := range ordered {
		if !(c.Close > 0) {
			return nil, &domain.RangeError{Field: "close", Code: code, Value: c.Close}
		}
		prices[i] = c.Close
	}

	returns := formulas.CalculateReturns(prices)
	out := make(map[time.Time]float64, len(returns))
	for i, r := range returns {
		out[dayKey(ordered[i+1].Date)] = r
	}
	return out, nil
}

// alignedDates returns the dates present in every series, ascending
func alignedDates(prepared []datedReturns) []time.Time {
	if len(prepared) == 0 {
		return nil
	}

	dates := make([]time.Time, 0, len(prepared[0].returns))
	for d := range prepared[0].returns {
		inAll := true
		for _, p := range prepared[1:] {
			if _, ok := p.returns[d]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func normalizeWeights(codes []string, weights map[string]float64) ([]float64, bool) {
	w := make([]float64, len(codes))
	sum := 0.0
	for i, code := range codes {
		if v := weights[code]; v > 0 {
			w[i] = v
			sum += v
		}
	}
	if !(sum > 0) {
		return nil, false
	}
	for i := range w {
		w[i] /= sum
	}
	return w, true
}

func dayKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func variable(values []float64) bool {
	for _, v := range values {
		if v != values[0] {
			return true
		}
	}
	return false
}
