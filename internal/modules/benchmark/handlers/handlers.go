// Package handlers provides HTTP handlers for benchmark comparison.
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

// Handler handles benchmark HTTP requests
type Handler struct {
	results ResultProvider
	log     zerolog.Logger
}

// NewHandler creates a new benchmark handler
func NewHandler(results ResultProvider, log zerolog.Logger) *Handler {
	return &Handler{
		results: results,
		log:     log.With().Str("handler", "benchmark").Logger(),
	}
}

// HandleGetComparison handles GET /api/benchmark.
// An optional ?code= narrows the response to one benchmark.
func (h *Handler) HandleGetComparison(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Latest()
	if err != nil {
		utils.WriteError(w, err, "Failed to get benchmark comparison", h.log)
		return
	}

	comparison := result.Benchmark
	if code := r.URL.Query().Get("code"); code != "" {
		filtered := comparison
		filtered.Benchmarks = nil
		for _, s := range comparison.Benchmarks {
			if s.Code == code {
				filtered.Benchmarks = append(filtered.Benchmarks, s)
			}
		}
		if len(filtered.Benchmarks) == 0 {
			http.Error(w, "Unknown benchmark: "+code, http.StatusNotFound)
			return
		}
		comparison = filtered
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(comparison), h.log)
}
