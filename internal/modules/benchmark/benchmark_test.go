package benchmark

import (
	"testing"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)

func snapshots(values ...float64) []domain.PortfolioSnapshot {
	out := make([]domain.PortfolioSnapshot, len(values))
	for i, v := range values {
		out[i] = domain.PortfolioSnapshot{Timestamp: start.AddDate(0, 0, 7*i), TotalValueBase: v}
	}
	return out
}

func day(offset int) time.Time {
	return time.Date(2026, 3, 6+offset, 0, 0, 0, 0, time.UTC)
}

func TestCompare(t *testing.T) {
	benchmarks := map[string][]domain.DailyClose{
		"SPY": {
			{Date: day(-3), Close: 400}, // before the first snapshot
			{Date: day(0), Close: 500},
			{Date: day(7), Close: 510},
			{Date: day(14), Close: 525},
		},
		"BTC": {
			{Date: day(14), Close: 60000},
		},
	}

	result := Compare(snapshots(1000, 1050, 1100), benchmarks)

	require.NotNil(t, result.Portfolio.TotalReturnPct)
	assert.InDelta(t, 10.0, *result.Portfolio.TotalReturnPct, 1e-9)
	require.Len(t, result.Portfolio.Points, 3)
	assert.InDelta(t, 100.0, result.Portfolio.Points[0].Value, 1e-12)
	assert.InDelta(t, 110.0, result.Portfolio.Points[2].Value, 1e-9)

	require.Len(t, result.Benchmarks, 2)
	btc, spy := result.Benchmarks[0], result.Benchmarks[1]

	assert.Equal(t, "BTC", btc.Code)
	assert.Nil(t, btc.TotalReturnPct)
	assert.Nil(t, btc.AlphaPct)

	assert.Equal(t, "SPY", spy.Code)
	require.Len(t, spy.Points, 3)
	assert.InDelta(t, 100.0, spy.Points[0].Value, 1e-12)
	require.NotNil(t, spy.TotalReturnPct)
	assert.InDelta(t, 5.0, *spy.TotalReturnPct, 1e-9)
	require.NotNil(t, spy.AlphaPct)
	assert.InDelta(t, 5.0, *spy.AlphaPct, 1e-9)
}

func TestCompare_SingleSnapshot(t *testing.T) {
	result := Compare(snapshots(1000), map[string][]domain.DailyClose{
		"SPY": {{Date: day(0), Close: 500}, {Date: day(1), Close: 505}},
	})

	assert.Nil(t, result.Portfolio.TotalReturnPct)
	require.Len(t, result.Benchmarks, 1)
	assert.NotNil(t, result.Benchmarks[0].TotalReturnPct)
	assert.Nil(t, result.Benchmarks[0].AlphaPct)
}

func TestCompare_Empty(t *testing.T) {
	result := Compare(nil, nil)

	assert.Empty(t, result.Portfolio.Points)
	assert.Nil(t, result.Portfolio.TotalReturnPct)
	assert.Empty(t, result.Benchmarks)
}
