// Package handlers provides HTTP handlers for chart images.
package handlers

import (
	"errors"
	"net/http"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/charts"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/utils"
	"github.com/rs/zerolog"
)

// ResultProvider returns the latest refresh result
type ResultProvider interface {
	Latest() (*refresh.Result, error)
}

// Handler handles chart HTTP requests
type Handler struct {
	results ResultProvider
	service *charts.Service
	log     zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(results ResultProvider, service *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		results: results,
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// HandleDrawdown handles GET /api/charts/drawdown.png
func (h *Handler) HandleDrawdown(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get drawdown", h.log)
		return
	}

	buf, err := h.service.DrawdownChart(result.PortfolioRisk.Drawdown)
	h.writePNG(w, buf, err)
}

// HandleAllocation handles GET /api/charts/allocation.png
func (h *Handler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get holdings", h.log)
		return
	}

	buf, err := h.service.AllocationChart(result.Holdings)
	h.writePNG(w, buf, err)
}

func (h *Handler) writePNG(w http.ResponseWriter, buf []byte, err error) {
	if errors.Is(err, charts.ErrNotEnoughData) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render chart")
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart")
	}
}
