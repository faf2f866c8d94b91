package user

import (
	"FoodieFriends/internal/api/handlers"
	"FoodieFriends/internal/core/users"
	"log/slog"
	"net/http"
)

// AccountHandler handles the account lifecycle endpoints
type AccountHandler struct {
	service users.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service users.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// SessionResponse is returned by register and login
type SessionResponse struct {
	User    *users.User `json:"user"`
	Message string      `json:"message"`
	IDToken string      `json:"idToken"`
}

// HandleRegister handles POST /register
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{
		Message: "User registered successfully",
		User:    session.User,
		IDToken: session.IDToken,
	})
}

// HandleLogin handles POST /login
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req users.LoginRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{
		Message: "Login successful",
		User:    session.User,
		IDToken: session.IDToken,
	})
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// HandleChangePassword handles POST /change-password
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), uid, req.NewPassword); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

type updateNameRequest struct {
	FirstName string `json:"firstName"`
}

// HandleUpdateName handles PUT /update-name
func (h *AccountHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	var req updateNameRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateName(r.Context(), uid, req.FirstName); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Name updated successfully"})
}

// HandleDeleteAccount handles DELETE /delete-account
// Users can only delete their own account; the uid comes from the token.
func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), uid); err != nil {
		slog.Error("account deletion failed", slog.String("uid", uid), slog.String("error", err.Error()))
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
