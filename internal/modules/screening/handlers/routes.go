package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all screening routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/screening", func(r chi.Router) {
		r.Get("/view", h.HandleGetView)           // Full dashboard view
		r.Get("/shortlist", h.HandleGetShortlist) // Formatted top-N table
		r.Get("/esg", h.HandleGetESG)             // Static ESG reference table
		r.Get("/ws", h.HandleWebSocket)           // Live rerun on every control change

		r.Post("/cache/invalidate", h.HandleInvalidateCache)
	})
}
