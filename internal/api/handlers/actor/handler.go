package actor

import (
	"FoodieFriends/internal/api/handlers"
	"FoodieFriends/internal/core/actor"
	"FoodieFriends/internal/core/posts"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler handles the per-user read endpoints
type Handler struct {
	service actor.Service
}

// NewHandler creates a new actor handler
func NewHandler(service actor.Service) *Handler {
	return &Handler{service: service}
}

// HandleGetProfile handles GET /user/{uid}
// The caller sees their own full profile and a public projection of anyone else's.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), viewer, chi.URLParam(r, "uid"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, profile)
}

// HandleUserPosts handles GET /user-posts/{userId}
func (h *Handler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, h.service.ListUserPosts)
}

// HandleLikedPosts handles GET /liked-posts/{userId}
func (h *Handler) HandleLikedPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, h.service.ListLikedPosts)
}

// HandleBookmarkedPosts handles GET /bookmarked-posts/{userId}
func (h *Handler) HandleBookmarkedPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, h.service.ListBookmarkedPosts)
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, uid string) ([]*posts.Post, error)) {
	if _, ok := handlers.RequireUserID(w, r); !ok {
		return
	}

	result, err := list(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": result})
}

// HandleStatistics handles GET /user-statistics/{userId}
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	if _, ok := handlers.RequireUserID(w, r); !ok {
		return
	}

	stats, err := h.service.Statistics(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, stats)
}
