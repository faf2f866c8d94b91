package routes

import (
	"FoodieFriends/internal/api/handlers/actor"
	"FoodieFriends/internal/api/handlers/follow"
	"FoodieFriends/internal/api/middleware"
	coreActor "FoodieFriends/internal/core/actor"
	"FoodieFriends/internal/core/follows"

	"github.com/go-chi/chi/v5"
)

// RegisterActorRoutes registers profile, per-user list, and follow endpoints.
// All of them require a bearer token.
func RegisterActorRoutes(
	r chi.Router,
	actorService coreActor.Service,
	followService follows.Service,
	authMiddleware *middleware.AuthMiddleware,
) {
	h := actor.NewHandler(actorService)
	fh := follow.NewHandler(followService)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Get("/user/{uid}", h.HandleGetProfile)
		r.Get("/user-posts/{userId}", h.HandleUserPosts)
		r.Get("/liked-posts/{userId}", h.HandleLikedPosts)
		r.Get("/bookmarked-posts/{userId}", h.HandleBookmarkedPosts)
		r.Get("/user-statistics/{userId}", h.HandleStatistics)

		r.Post("/toggle-follow/{userId}", fh.HandleToggleFollow)
	})
}
