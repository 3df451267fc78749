// Package formulas holds the statistical building blocks used by the risk engine.
//
// Functions return (value, ok) pairs where a result can be undefined; callers decide
// how to surface a missing value.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// TradingDaysPerYear is the annualization factor for daily series
	TradingDaysPerYear = 252
	// TradingDaysPerMonth scales daily volatility to a monthly horizon
	TradingDaysPerMonth = 21
	// WeeksPerYear is the annualization factor for weekly snapshot series
	WeeksPerYear = 52
)

// CalculateReturns converts a price series into simple period returns.
// Prices must be positive; the result has len(prices)-1 entries.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
	}
	return returns
}

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator).
// ok is false when fewer than two observations are available.
func StdDev(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	sd := stat.StdDev(values, nil)
	if math.IsNaN(sd) {
		return 0, false
	}
	return sd, true
}

// MonthlyVolatility scales the daily standard deviation by sqrt(21)
func MonthlyVolatility(dailyReturns []float64) (float64, bool) {
	sd, ok := StdDev(dailyReturns)
	if !ok {
		return 0, false
	}
	return sd * math.Sqrt(TradingDaysPerMonth), true
}

// WeightedSum combines aligned return columns into one series.
// columns[j][t] is the return of instrument j at row t.
func WeightedSum(columns [][]float64, weights []float64) []float64 {
	if len(columns) == 0 {
		return []float64{}
	}

	rows := len(columns[0])
	out := make([]float64, rows)
	for j, col := range columns {
		w := weights[j]
		for t := 0; t < rows; t++ {
			out[t] += w * col[t]
		}
	}
	return out
}
