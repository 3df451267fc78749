package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateReturns(t *testing.T) {
	returns := CalculateReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)

	assert.Empty(t, CalculateReturns([]float64{100}))
	assert.Empty(t, CalculateReturns(nil))
}

func TestStdDev_IsSampleDeviation(t *testing.T) {
	sd, ok := StdDev([]float64{1, 2, 3, 4})
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(5.0/3.0), sd, 1e-12)

	_, ok = StdDev([]float64{1})
	assert.False(t, ok)
}

func TestMonthlyVolatility(t *testing.T) {
	vol, ok := MonthlyVolatility([]float64{0.01, -0.01, 0.01, -0.01})
	require.True(t, ok)
	sd, _ := StdDev([]float64{0.01, -0.01, 0.01, -0.01})
	assert.InDelta(t, sd*math.Sqrt(21), vol, 1e-12)
}

func TestWeightedSum(t *testing.T) {
	out := WeightedSum([][]float64{{0.1, 0.2}, {-0.1, 0.0}}, []float64{0.7, 0.3})
	require.Len(t, out, 2)
	assert.InDelta(t, 0.04, out[0], 1e-12)
	assert.InDelta(t, 0.14, out[1], 1e-12)
}

func TestSharpeRatio(t *testing.T) {
	sharpe, ok := SharpeRatio([]float64{0.01, 0.02, 0.03}, 0)
	require.True(t, ok)
	assert.InDelta(t, 2*math.Sqrt(252), sharpe, 1e-9)

	withRiskFree, ok := SharpeRatio([]float64{0.01, 0.02, 0.03}, 0.252)
	require.True(t, ok)
	assert.InDelta(t, (0.02-0.001)/0.01*math.Sqrt(252), withRiskFree, 1e-9)
}

func TestSharpeRatio_ZeroVarianceIsUndefined(t *testing.T) {
	_, ok := SharpeRatio([]float64{0.01, 0.01, 0.01}, 0.35)
	assert.False(t, ok)
}

func TestSortinoRatio(t *testing.T) {
	returns := []float64{0.1, -0.05, 0.02, -0.01}
	sortino, ok := SortinoRatio(returns, 0, WeeksPerYear)
	require.True(t, ok)

	expected := (0.015 * 52) / (math.Sqrt(0.0008) * math.Sqrt(52))
	assert.InDelta(t, expected, sortino, 1e-9)
}

func TestSortinoRatio_NoDownsideIsUndefined(t *testing.T) {
	_, ok := SortinoRatio([]float64{0.01, 0.02, 0.0, 0.03}, 0.35, WeeksPerYear)
	assert.False(t, ok)
}

func TestSortinoRatio_SingleDownsideIsUndefined(t *testing.T) {
	_, ok := SortinoRatio([]float64{0.01, -0.02, 0.03}, 0.35, WeeksPerYear)
	assert.False(t, ok)
}

func TestPearson(t *testing.T) {
	corr, ok := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.True(t, ok)
	assert.InDelta(t, 1.0, corr, 1e-12)

	corr, ok = Pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
	require.True(t, ok)
	assert.InDelta(t, -1.0, corr, 1e-12)

	_, ok = Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.False(t, ok, "constant series has no correlation")

	_, ok = Pearson([]float64{1, 2}, []float64{1, 2, 3})
	assert.False(t, ok)
}

func TestBeta(t *testing.T) {
	reference := []float64{0.01, 0.02, -0.01, 0.03}
	asset := []float64{0.02, 0.04, -0.02, 0.06}

	beta, ok := Beta(asset, reference)
	require.True(t, ok)
	assert.InDelta(t, 2.0, beta, 1e-12)

	_, ok = Beta(asset, []float64{0.01, 0.01, 0.01, 0.01})
	assert.False(t, ok)
}

func TestDrawdownSeries(t *testing.T) {
	drawdowns, runningMax := DrawdownSeries([]float64{100, 120, 90, 130, 117})

	assert.Equal(t, []float64{100, 120, 120, 130, 130}, runningMax)
	expected := []float64{0, 0, -25, 0, -10}
	for i := range expected {
		assert.InDelta(t, expected[i], drawdowns[i], 1e-9)
		assert.LessOrEqual(t, drawdowns[i], 0.0)
	}
}

func TestCalculateDrawdownMetrics(t *testing.T) {
	metrics, ok := CalculateDrawdownMetrics([]float64{100, 120, 90, 130, 117})
	require.True(t, ok)

	assert.InDelta(t, -10.0, metrics.CurrentDrawdownPct, 1e-9)
	assert.InDelta(t, -25.0, metrics.MaxDrawdownPct, 1e-9)
	assert.Equal(t, 130.0, metrics.PeakValue)
	assert.Equal(t, 117.0, metrics.CurrentValue)
	assert.Equal(t, 1, metrics.PeriodsInDrawdown)

	_, ok = CalculateDrawdownMetrics([]float64{100})
	assert.False(t, ok)
}
