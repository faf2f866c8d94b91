package routes

import (
	"FoodieFriends/internal/api/handlers/user"
	"FoodieFriends/internal/api/middleware"
	"FoodieFriends/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterAccountRoutes registers the account lifecycle endpoints.
// credentialLimiter, when not nil, applies a stricter limit to /register and /login.
func RegisterAccountRoutes(
	r chi.Router,
	service users.Service,
	authMiddleware *middleware.AuthMiddleware,
	credentialLimiter *middleware.RateLimiter,
) {
	h := user.NewAccountHandler(service)

	r.Group(func(r chi.Router) {
		if credentialLimiter != nil {
			r.Use(credentialLimiter.Middleware)
		}
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
	})

	r.With(authMiddleware.RequireAuth).Post("/change-password", h.HandleChangePassword)
	r.With(authMiddleware.RequireAuth).Put("/update-name", h.HandleUpdateName)
	r.With(authMiddleware.RequireAuth).Delete("/delete-account", h.HandleDeleteAccount)
}
