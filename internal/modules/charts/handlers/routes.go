package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all chart routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/charts", func(r chi.Router) {
		r.Get("/drawdown.png", h.HandleDrawdown)
		r.Get("/allocation.png", h.HandleAllocation)
	})
}
