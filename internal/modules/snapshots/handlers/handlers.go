// Package handlers provides HTTP handlers for portfolio snapshot history.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/utils"
	"github.com/rs/zerolog"
)

// maxLimit caps the ?limit query parameter
const maxLimit = 520

// Snapshotter records a snapshot of the latest refresh result
type Snapshotter interface {
	TakeSnapshot(ctx context.Context) (*domain.PortfolioSnapshot, error)
}

// Handler handles snapshot HTTP requests
type Handler struct {
	store       snapshots.Store
	snapshotter Snapshotter
	log         zerolog.Logger
}

// NewHandler creates a new snapshots handler
func NewHandler(store snapshots.Store, snapshotter Snapshotter, log zerolog.Logger) *Handler {
	return &Handler{
		store:       store,
		snapshotter: snapshotter,
		log:         log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleList handles GET /api/snapshots
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := snapshots.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxLimit)
	}

	list, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		utils.WriteError(w, err, "Failed to list snapshots", h.log)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(map[string]interface{}{
		"snapshots": list,
		"count":     len(list),
	}), h.log)
}

// HandleLatest handles GET /api/snapshots/latest
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.store.Latest(r.Context())
	if err != nil {
		utils.WriteError(w, err, "Failed to get latest snapshot", h.log)
		return
	}
	if latest == nil {
		http.Error(w, "No snapshots recorded", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(latest), h.log)
}

// HandleCreate handles POST /api/snapshots.
// It bypasses the weekday rule but still enforces ordering and one snapshot per ISO week.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshotter.TakeSnapshot(r.Context())
	if err != nil {
		utils.WriteError(w, err, "Failed to take snapshot", h.log)
		return
	}

	year, week := snap.Period()
	h.log.Info().
		Str("id", snap.ID).
		Int("iso_year", year).
		Int("iso_week", week).
		Msg("Manual snapshot recorded")

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope(snap), h.log)
}
