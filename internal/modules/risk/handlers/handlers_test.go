package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/risk"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResults struct {
	result *refresh.Result
}

func (s staticResults) Latest() (*refresh.Result, error) {
	if s.result == nil {
		return nil, domain.ErrNoResult
	}
	return s.result, nil
}

func newRouter(results ResultProvider) *chi.Mux {
	h := NewHandler(results, zerolog.New(nil).Level(zerolog.Disabled))
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func get(t *testing.T, router http.Handler, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func riskResult() *refresh.Result {
	corr := 0.85
	ts := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)
	return &refresh.Result{
		Metrics: domain.PortfolioMetrics{
			SharpeRatio:        domain.Float(1.2),
			CurrentDrawdownPct: domain.Float(-10),
		},
		HoldingRisk: risk.HoldingRisk{
			CorrelationWarnings: []string{"High correlation: AAA-BBB (0.85)"},
			HighCorrelations:    []risk.CorrelationPair{{Code1: "AAA", Code2: "BBB", Correlation: corr}},
			Correlation: &risk.CorrelationMatrix{
				Codes:  []string{"AAA", "BBB"},
				Values: [][]*float64{{domain.Float(1), &corr}, {&corr, domain.Float(1)}},
			},
			Observations: 20,
		},
		PortfolioRisk: risk.PortfolioRisk{
			CurrentDrawdownPct: domain.Float(-10),
			MaxDrawdownPct:     domain.Float(-25),
			Drawdown: []risk.DrawdownPoint{
				{Timestamp: ts, Value: 100, RunningMax: 100},
				{Timestamp: ts.AddDate(0, 0, 7), Value: 90, RunningMax: 100, DrawdownPct: -10},
			},
		},
		Thresholds: domain.DefaultThresholds(),
	}
}

func TestHandleGetMetrics(t *testing.T) {
	status, body := get(t, newRouter(staticResults{riskResult()}), "/api/risk/metrics")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, 1.2, data["sharpe_ratio"])
	assert.Nil(t, data["sortino_ratio"], "absent metrics are null, never 0")
	assert.Equal(t, []interface{}{"High correlation: AAA-BBB (0.85)"}, data["warnings"])
	assert.Equal(t, 20.0, data["observations"])
}

func TestHandleGetCorrelation(t *testing.T) {
	status, body := get(t, newRouter(staticResults{riskResult()}), "/api/risk/correlation")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	matrix := data["matrix"].(map[string]interface{})
	assert.Equal(t, []interface{}{"AAA", "BBB"}, matrix["codes"])
	assert.Equal(t, 0.7, data["threshold"])
	assert.Len(t, data["high_correlations"], 1)
}

func TestHandleGetDrawdown(t *testing.T) {
	status, body := get(t, newRouter(staticResults{riskResult()}), "/api/risk/drawdown")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Len(t, data["series"], 2)
	assert.Equal(t, -25.0, data["max_drawdown_pct"])
}

func TestHandlers_NoResult(t *testing.T) {
	router := newRouter(staticResults{})
	for _, path := range []string{"/api/risk/metrics", "/api/risk/correlation", "/api/risk/drawdown"} {
		status, _ := get(t, router, path)
		assert.Equal(t, http.StatusServiceUnavailable, status, path)
	}
}
