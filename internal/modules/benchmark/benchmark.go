// Package benchmark compares the portfolio's snapshot history with reference indices.
package benchmark

import (
	"sort"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
)

// Point is one normalized value, 100 at the first point of the series
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a normalized performance series
type Series struct {
	Code           string   `json:"code"`
	Points         []Point  `json:"points"`
	TotalReturnPct *float64 `json:"total_return_pct"`
	AlphaPct       *float64 `json:"alpha_pct,omitempty"` // portfolio return minus this series' return
}

// Comparison is the result of Compare
type Comparison struct {
	Portfolio  Series   `json:"portfolio"`
	Benchmarks []Series `json:"benchmarks"`
}

// Compare normalizes the portfolio and each benchmark to 100 at their first point.
//
// Benchmark closes before the first snapshot's date are ignored so both series cover the
// same window. A series with fewer than two points has no total return and no alpha.
func Compare(snapshots []domain.PortfolioSnapshot, benchmarks map[string][]domain.DailyClose) Comparison {
	result := Comparison{
		Portfolio:  Series{Code: "portfolio", Points: []Point{}},
		Benchmarks: []Series{},
	}

	var start time.Time
	if len(snapshots) > 0 {
		start = truncateDay(snapshots[0].Timestamp)
	}

	values := make([]Point, 0, len(snapshots))
	for _, s := range snapshots {
		values = append(values, Point{Date: s.Timestamp, Value: s.TotalValueBase})
	}
	result.Portfolio = normalize("portfolio", values)

	codes := make([]string, 0, len(benchmarks))
	for code := range benchmarks {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		closes := make([]Point, 0, len(benchmarks[code]))
		for _, c := range benchmarks[code] {
			if !start.IsZero() && c.Date.Before(start) {
				continue
			}
			closes = append(closes, Point{Date: c.Date, Value: c.Close})
		}
		sort.SliceStable(closes, func(i, j int) bool { return closes[i].Date.Before(closes[j].Date) })

		series := normalize(code, closes)
		if result.Portfolio.TotalReturnPct != nil && series.TotalReturnPct != nil {
			alpha := *result.Portfolio.TotalReturnPct - *series.TotalReturnPct
			series.AlphaPct = &alpha
		}
		result.Benchmarks = append(result.Benchmarks, series)
	}

	return result
}

func normalize(code string, raw []Point) Series {
	series := Series{Code: code, Points: []Point{}}
	if len(raw) == 0 || !(raw[0].Value > 0) {
		return series
	}

	first := raw[0].Value
	for _, p := range raw {
		series.Points = append(series.Points, Point{Date: p.Date, Value: p.Value / first * 100})
	}
	if len(raw) >= 2 {
		total := (raw[len(raw)-1].Value/first - 1) * 100
		series.TotalReturnPct = &total
	}
	return series
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
