package risk

import (
	"math"

	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formulas"
	"github.com/markcheno/go-talib"
)

// RollingVolatility returns the monthly volatility in percent over a sliding window of
// daily returns, one value per complete window. Uses the population deviation.
func RollingVolatility(dailyReturns []float64, window int) []float64 {
	if window < 2 || len(dailyReturns) < window {
		return []float64{}
	}

	sd := talib.StdDev(dailyReturns, window, 1.0)
	scale := math.Sqrt(formulas.TradingDaysPerMonth) * 100

	out := make([]float64, 0, len(sd)-window+1)
	for _, v := range sd[window-1:] {
		out = append(out, v*scale)
	}
	return out
}
