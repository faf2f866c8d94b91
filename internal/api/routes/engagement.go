package routes

import (
	"FoodieFriends/internal/api/handlers/engagement"
	"FoodieFriends/internal/api/middleware"
	coreEngagement "FoodieFriends/internal/core/engagement"

	"github.com/go-chi/chi/v5"
)

// RegisterEngagementRoutes registers like, bookmark, and comment endpoints
func RegisterEngagementRoutes(r chi.Router, service coreEngagement.Service, authMiddleware *middleware.AuthMiddleware) {
	h := engagement.NewHandler(service)

	r.Get("/post-likes/{postId}", h.HandleListLikes)

	r.With(authMiddleware.RequireAuth).Post("/toggle-like/{postId}", h.HandleToggleLike)
	r.With(authMiddleware.RequireAuth).Post("/toggle-bookmark/{postId}", h.HandleToggleBookmark)
	r.With(authMiddleware.RequireAuth).Post("/add-comment", h.HandleAddComment)
}
