package follow

import (
	"FoodieFriends/internal/api/handlers"
	"FoodieFriends/internal/core/follows"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler handles the follow toggle
type Handler struct {
	service follows.Service
}

// NewHandler creates a new follow handler
func NewHandler(service follows.Service) *Handler {
	return &Handler{service: service}
}

// HandleToggleFollow handles POST /toggle-follow/{userId}
func (h *Handler) HandleToggleFollow(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleFollow(r.Context(), uid, chi.URLParam(r, "userId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	msg := "User unfollowed"
	if result.Following {
		msg = "User followed"
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   msg,
		"following": result.Following,
	})
}
