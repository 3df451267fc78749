// Package handlers provides HTTP handlers for risk metrics operations.
package handlers

import (
	"net/http"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/utils"
	"github.com/rs/zerolog"
)

// ResultProvider returns the latest refresh result
type ResultProvider interface {
	Latest() (*refresh.Result, error)
}

// Handler handles risk metrics HTTP requests
type Handler struct {
	results ResultProvider
	log     zerolog.Logger
}

// NewHandler creates a new risk metrics handler
func NewHandler(results ResultProvider, log zerolog.Logger) *Handler {
	return &Handler{
		results: results,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// HandleGetMetrics handles GET /api/risk/metrics
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get risk metrics", h.log)
		return
	}

	m := result.Metrics
	hr := result.HoldingRisk
	pr := result.PortfolioRisk

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(map[string]interface{}{
		"volatility_monthly_pct": m.VolatilityMonthlyPct,
		"sharpe_ratio":           m.SharpeRatio,
		"sortino_ratio":          m.SortinoRatio,
		"beta":                   m.BetaVsReference,
		"diversification_score":  m.DiversificationScore,
		"current_drawdown_pct":   m.CurrentDrawdownPct,
		"max_drawdown_pct":       m.MaxDrawdownPct,
		"ath_value":              m.ATHValue,
		"rolling_volatility_pct": hr.RollingVolatilityPct,
		"warnings":               hr.Warnings(),
		"observations":           hr.Observations,
		"instruments":            hr.Instruments,
		"snapshots":              pr.Snapshots,
		"beta_observations":      pr.BetaObservations,
	}), h.log)
}

// HandleGetCorrelation handles GET /api/risk/correlation
func (h *Handler) HandleGetCorrelation(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get correlation matrix", h.log)
		return
	}

	hr := result.HoldingRisk
	utils.WriteJSON(w, http.StatusOK, utils.Envelope(map[string]interface{}{
		"matrix":            hr.Correlation,
		"high_correlations": hr.HighCorrelations,
		"threshold":         result.Thresholds.HighCorrelation,
	}), h.log)
}

// HandleGetDrawdown handles GET /api/risk/drawdown
func (h *Handler) HandleGetDrawdown(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get drawdown", h.log)
		return
	}

	pr := result.PortfolioRisk
	utils.WriteJSON(w, http.StatusOK, utils.Envelope(map[string]interface{}{
		"series":               pr.Drawdown,
		"current_drawdown_pct": pr.CurrentDrawdownPct,
		"max_drawdown_pct":     pr.MaxDrawdownPct,
		"ath_value":            pr.ATHValue,
		"periods_in_drawdown":  pr.PeriodsInDrawdown,
	}), h.log)
}
