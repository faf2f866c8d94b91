// Package meta serves the unauthenticated service endpoints: about, ping, and health.
package meta

import (
	"FoodieFriends/internal/api/handlers"
	"context"
	"log"
	"net/http"
	"time"
)

// About describes the service on GET /about
type About struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the meta endpoints
type Handler struct {
	db    Pinger
	about About
}

// NewHandler creates a meta handler. db may be nil when the store has no
// connection to check.
func NewHandler(about About, db Pinger) *Handler {
	return &Handler{about: about, db: db}
}

// HandleAbout handles GET /about
func (h *Handler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, h.about)
}

// HandlePing handles GET /ping
func (h *Handler) HandlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("Pong")); err != nil {
		log.Printf("Failed to write ping response: %v", err)
	}
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			handlers.WriteError(w, http.StatusServiceUnavailable, "Unhealthy", "database unreachable")
			return
		}
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
