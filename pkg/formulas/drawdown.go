package formulas

// DrawdownMetrics summarizes a drawdown scan
type DrawdownMetrics struct {
	CurrentDrawdownPct float64
	MaxDrawdownPct     float64 // most negative value, <= 0
	PeakValue          float64
	CurrentValue       float64
	PeriodsInDrawdown  int // trailing periods below the peak
}

// DrawdownSeries runs an expanding-max scan over time-ordered values.
// It returns drawdown percentages (always <= 0) and the running maximum.
func DrawdownSeries(values []float64) (drawdowns []float64, runningMax []float64) {
	drawdowns = make([]float64, len(values))
	runningMax = make([]float64, len(values))

	peak := 0.0
	for i, v := range values {
		if i == 0 || v > peak {
			peak = v
		}
		runningMax[i] = peak
		if peak > 0 {
			drawdowns[i] = 100 * (v - peak) / peak
		}
	}
	return drawdowns, runningMax
}

// CalculateDrawdownMetrics reduces a value series to current/max drawdown and the peak.
// ok is false for fewer than two values.
func CalculateDrawdownMetrics(values []float64) (DrawdownMetrics, bool) {
	if len(values) < 2 {
		return DrawdownMetrics{}, false
	}

	drawdowns, runningMax := DrawdownSeries(values)
	last := len(values) - 1

	metrics := DrawdownMetrics{
		CurrentDrawdownPct: drawdowns[last],
		PeakValue:          runningMax[last],
		CurrentValue:       values[last],
	}
	for _, dd := range drawdowns {
		if dd < metrics.MaxDrawdownPct {
			metrics.MaxDrawdownPct = dd
		}
	}
	for i := last; i >= 0 && drawdowns[i] < 0; i-- {
		metrics.PeriodsInDrawdown++
	}
	return metrics, true
}
