package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/risk"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func newTestService() *Service {
	return NewService(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestDrawdownChart(t *testing.T) {
	start := time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC)
	points := []risk.DrawdownPoint{
		{Timestamp: start, Value: 100, RunningMax: 100},
		{Timestamp: start.AddDate(0, 0, 7), Value: 120, RunningMax: 120},
		{Timestamp: start.AddDate(0, 0, 14), Value: 90, RunningMax: 120, DrawdownPct: -25},
		{Timestamp: start.AddDate(0, 0, 21), Value: 130, RunningMax: 130},
	}

	buf, err := newTestService().DrawdownChart(points)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf, pngSignature))
}

func TestDrawdownChart_NotEnoughData(t *testing.T) {
	_, err := newTestService().DrawdownChart([]risk.DrawdownPoint{{Value: 100, RunningMax: 100}})
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestAllocationChart(t *testing.T) {
	holdings := []domain.ValuedHolding{
		{Code: "AAA", Quantity: 10, CurrentPrice: 10, ValueInBase: 100, WeightPct: 40},
		{Code: "BBB", Quantity: 5, CurrentPrice: 30, ValueInBase: 150, WeightPct: 60},
		{Code: "NOQUOTE", Quantity: 5},
	}

	buf, err := newTestService().AllocationChart(holdings)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf, pngSignature))
}

func TestAllocationChart_NoValidHoldings(t *testing.T) {
	_, err := newTestService().AllocationChart([]domain.ValuedHolding{{Code: "AAA", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestSplitNumber(t *testing.T) {
	assert.Equal(t, 3, splitNumber(3))
	assert.Equal(t, maxXLabels, splitNumber(52))
}
