package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Pearson returns the Pearson correlation of two equally sized series.
// ok is false for short input or when either series has zero variance.
func Pearson(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}
	if !hasVariance(x) || !hasVariance(y) {
		return 0, false
	}

	corr := stat.Correlation(x, y, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		return 0, false
	}
	return corr, true
}

// Beta returns cov(asset, reference) / var(reference).
// ok is false when the reference series has no variance.
func Beta(asset, reference []float64) (float64, bool) {
	if len(asset) != len(reference) || len(asset) < 2 {
		return 0, false
	}

	variance := stat.Variance(reference, nil)
	if !(variance > 0) {
		return 0, false
	}

	return stat.Covariance(asset, reference, nil) / variance, true
}

func hasVariance(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}
