// Package handlers provides HTTP handlers for portfolio valuation operations.
package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/utils"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formatting"
	"github.com/rs/zerolog"
)

const maxMarketDataBytes = 10 << 20

// RefreshService is the part of refresh.Service the handlers use
type RefreshService interface {
	Latest() (*refresh.Result, error)
	Status() refresh.Status
	Refresh(ctx context.Context, source quotes.Source) (*refresh.Result, error)
}

// Handler handles portfolio HTTP requests
type Handler struct {
	refresh RefreshService
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(refreshService RefreshService, log zerolog.Logger) *Handler {
	return &Handler{
		refresh: refreshService,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetSummary handles GET /api/portfolio/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.refresh.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get portfolio summary", h.log)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(summary(result)), h.log)
}

// HandleGetHoldings handles GET /api/portfolio/holdings
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	result, err := h.refresh.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get holdings", h.log)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(map[string]interface{}{
		"holdings":        result.Holdings,
		"recommendations": result.Recommendations,
		"computed_at":     result.ComputedAt,
	}), h.log)
}

// HandleGetRebalancing handles GET /api/portfolio/rebalancing
func (h *Handler) HandleGetRebalancing(w http.ResponseWriter, r *http.Request) {
	result, err := h.refresh.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get rebalancing suggestions", h.log)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(map[string]interface{}{
		"suggestions":   result.Rebalancing,
		"threshold_pct": result.Thresholds.WeightDeviationPct,
	}), h.log)
}

// HandleRefresh handles POST /api/portfolio/refresh
// An optional market data document in the body replaces the configured source.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMarketDataBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var source quotes.Source
	if len(bytes.TrimSpace(body)) > 0 {
		md, err := quotes.Decode(body)
		if err != nil {
			h.log.Warn().Err(err).Msg("Rejected market data body")
			http.Error(w, "Invalid market data document", http.StatusBadRequest)
			return
		}
		source = quotes.NewStaticSource(md)
	}

	result, err := h.refresh.Refresh(r.Context(), source)
	if err != nil {
		utils.WriteError(w, err, "Refresh failed", h.log)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(summary(result)), h.log)
}

// HandleGetState handles GET /api/portfolio/state
func (h *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.Envelope(h.refresh.Status()), h.log)
}

func summary(result *refresh.Result) map[string]interface{} {
	m := result.Metrics
	return map[string]interface{}{
		"run_id":                result.RunID,
		"computed_at":           result.ComputedAt,
		"base_currency":         result.BaseCurrency,
		"fx_rate":               result.FXRate,
		"metrics":               m,
		"total_value_display":   formatting.Currency(m.TotalValueBase, result.BaseCurrency),
		"weekly_return_display": formatting.Percentage(m.WeeklyReturnPct, 2),
		"snapshot":              result.Snapshot,
	}
}
