package formulas

import "math"

// SharpeRatio annualizes the excess mean daily return over its volatility:
// (mean - rf/252) / std * sqrt(252).
func SharpeRatio(dailyReturns []float64, riskFreeAnnual float64) (float64, bool) {
	sd, ok := StdDev(dailyReturns)
	if !ok || !(sd > 0) {
		return 0, false
	}

	excess := Mean(dailyReturns) - riskFreeAnnual/TradingDaysPerYear
	return excess / sd * math.Sqrt(TradingDaysPerYear), true
}

// SortinoRatio divides the annualized excess return by the annualized standard
// deviation of the negative returns only.
func SortinoRatio(returns []float64, riskFreeAnnual float64, periodsPerYear int) (float64, bool) {
	if len(returns) == 0 || periodsPerYear <= 0 {
		return 0, false
	}

	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	sd, ok := StdDev(downside)
	if !ok || !(sd > 0) {
		return 0, false
	}

	annualMean := Mean(returns) * float64(periodsPerYear)
	annualDownside := sd * math.Sqrt(float64(periodsPerYear))
	return (annualMean - riskFreeAnnual) / annualDownside, true
}
