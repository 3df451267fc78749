// Package charts renders PNG charts of portfolio risk and allocation.
package charts

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/risk"
	"github.com/rs/zerolog"
	charts "github.com/vicanso/go-charts/v2"
)

// ErrNotEnoughData is returned when there is nothing meaningful to plot
var ErrNotEnoughData = errors.New("not enough data to render chart")

const (
	chartWidth  = 800
	chartHeight = 480
	maxXLabels  = 8
)

// Service renders charts
type Service struct {
	log zerolog.Logger
}

// NewService creates a new charts service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "charts").Logger(),
	}
}

// DrawdownChart renders the drawdown series as a line chart in percent below the running peak
func (s *Service) DrawdownChart(points []risk.DrawdownPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNotEnoughData
	}

	values := make([]float64, len(points))
	labels := make([]string, len(points))
	yMin := 0.0
	for i, p := range points {
		values[i] = p.DrawdownPct
		labels[i] = p.Timestamp.UTC().Format("2006-01-02")
		yMin = math.Min(yMin, p.DrawdownPct)
	}
	yMin = math.Floor(yMin) - 1
	yMax := 0.0

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc("Drawdown (%)"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitNumber(len(labels)),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render drawdown chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	s.log.Debug().Int("points", len(points)).Int("bytes", len(buf)).Msg("Rendered drawdown chart")
	return buf, nil
}

// AllocationChart renders the weight of every valid holding as a pie chart.
// Holdings are ordered by value, largest first.
func (s *Service) AllocationChart(holdings []domain.ValuedHolding) ([]byte, error) {
	valid := make([]domain.ValuedHolding, 0, len(holdings))
	for _, h := range holdings {
		if h.Valid() && h.ValueInBase > 0 {
			valid = append(valid, h)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNotEnoughData
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].ValueInBase > valid[j].ValueInBase
	})

	values := make([]float64, len(valid))
	labels := make([]string, len(valid))
	for i, h := range valid {
		values[i] = h.ValueInBase
		labels[i] = fmt.Sprintf("%s (%.1f%%)", h.Code, h.WeightPct)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc("Allocation"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionBottom,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render allocation chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// splitNumber is the number of x-axis labels shown for n points
func splitNumber(n int) int {
	return min(n, maxXLabels)
}
