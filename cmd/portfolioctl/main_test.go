package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/portfolio"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/risk"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/reliability"
	"github.com/stretchr/testify/assert"
)

func sampleResult() *refresh.Result {
	return &refresh.Result{
		BaseCurrency: "TRY",
		FXRate:       35,
		Holdings: []domain.ValuedHolding{
			{
				Code:            "AAA",
				Class:           domain.AssetClassFund,
				Quantity:        10,
				TargetWeightPct: 50,
				CurrentPrice:    10,
				Currency:        domain.CurrencyBase,
				ValueInBase:     100,
				WeightPct:       100,
				WeeklyReturnPct: 2.5,
			},
			{
				Code:            "MISSING",
				Class:           domain.AssetClassEquity,
				Quantity:        3,
				TargetWeightPct: 50,
				Currency:        domain.CurrencyUSD,
			},
		},
		Metrics: domain.PortfolioMetrics{
			TotalValueBase:  100,
			WeeklyReturnPct: 2.5,
			ValidHoldings:   1,
			InvalidHoldings: 1,
			SharpeRatio:     domain.Float(1.234),
			Warnings:        []string{"Missing price: MISSING"},
			Notes:           []string{},
		},
		HoldingRisk: risk.HoldingRisk{
			CorrelationWarnings: []string{"High correlation: AAA-BBB (0.91)"},
		},
		Recommendations: []portfolio.Recommendation{
			{Code: "AAA", Actions: []portfolio.Action{portfolio.ActionReduce}, TargetWeightPct: 50},
		},
		Rebalancing: []portfolio.Suggestion{
			{Code: "AAA", Side: portfolio.SideSell, Units: 5, ValueBase: 50, CurrentWeightPct: 100, TargetWeightPct: 50, DeviationPct: 50},
		},
	}
}

func TestRenderValuation(t *testing.T) {
	var buf bytes.Buffer
	renderValuation(&buf, sampleResult())

	out := buf.String()
	assert.Contains(t, out, "AAA")
	assert.Contains(t, out, "MISSING")
	assert.Contains(t, out, "+2.50%")
	assert.Contains(t, out, "Reduce (target 50%)")
	assert.Contains(t, out, "Missing price: MISSING")
	assert.NotContains(t, out, "Notes:")
}

func TestRenderRebalancing(t *testing.T) {
	var buf bytes.Buffer
	renderRebalancing(&buf, sampleResult())
	assert.Contains(t, buf.String(), "SELL")

	buf.Reset()
	result := sampleResult()
	result.Rebalancing = nil
	renderRebalancing(&buf, result)
	assert.Equal(t, "No rebalancing needed\n", buf.String())
}

func TestRenderRisk(t *testing.T) {
	var buf bytes.Buffer
	renderRisk(&buf, sampleResult())

	out := buf.String()
	assert.Contains(t, out, "1.23")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "High correlation: AAA-BBB (0.91)")
}

func TestPriceCurrency(t *testing.T) {
	assert.Equal(t, "TRY", priceCurrency(domain.ValuedHolding{Currency: domain.CurrencyBase}, "TRY"))
	assert.Equal(t, "USD", priceCurrency(domain.ValuedHolding{Currency: domain.CurrencyUSD}, "TRY"))
}

func TestRenderSnapshots(t *testing.T) {
	var buf bytes.Buffer
	renderSnapshots(&buf, nil, "TRY")
	assert.Equal(t, "No snapshots recorded\n", buf.String())

	buf.Reset()
	renderSnapshots(&buf, []domain.PortfolioSnapshot{
		{ID: "s1", Timestamp: time.Date(2026, 1, 9, 18, 0, 0, 0, time.UTC), TotalValueBase: 1000},
	}, "TRY")
	assert.Contains(t, buf.String(), "2026-W02")
	assert.Contains(t, buf.String(), "2026-01-09T18:00:00Z")
}

func TestRenderBackups(t *testing.T) {
	var buf bytes.Buffer
	renderBackups(&buf, nil)
	assert.Equal(t, "No backups found\n", buf.String())

	buf.Reset()
	renderBackups(&buf, []reliability.BackupInfo{
		{Key: "backups/snapshots-20260109T180000Z.db", Timestamp: time.Date(2026, 1, 9, 18, 0, 0, 0, time.UTC), SizeBytes: 4096, AgeHours: 5},
	})
	assert.Contains(t, buf.String(), "snapshots-20260109T180000Z.db")
	assert.Contains(t, buf.String(), "5h")
}
