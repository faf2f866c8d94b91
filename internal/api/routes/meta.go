package routes

import (
	"FoodieFriends/internal/api/handlers/meta"
	"FoodieFriends/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// RegisterMetaRoutes registers /about, /ping, /health, and /metrics when enabled
func RegisterMetaRoutes(r chi.Router, h *meta.Handler, metricsEnabled bool) {
	r.Get("/about", h.HandleAbout)
	r.Get("/ping", h.HandlePing)
	r.Get("/health", h.HandleHealth)

	if metricsEnabled {
		r.Method("GET", "/metrics", metrics.Handler())
	}
}
