package routes

import (
	"FoodieFriends/internal/api/handlers/post"
	"FoodieFriends/internal/api/middleware"
	"FoodieFriends/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the post graph endpoints
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware) {
	h := post.NewHandler(service)

	// Public reads
	r.Get("/posts", h.HandleList)
	r.Get("/posts/{postId}", h.HandleGet)

	// Mutations require a bearer token; authorization is checked by the service
	r.With(authMiddleware.RequireAuth).Post("/create-post", h.HandleCreate)
	r.With(authMiddleware.RequireAuth).Put("/edit-post/{postId}", h.HandleEdit)
	r.With(authMiddleware.RequireAuth).Delete("/delete-post/{postId}", h.HandleDelete)
	r.With(authMiddleware.RequireAuth).Post("/share-post/{postId}", h.HandleShare)
	r.With(authMiddleware.RequireAuth).Post("/repost/{postId}", h.HandleRepost)
}
