package handlers

import (
	"FoodieFriends/internal/api/middleware"
	"FoodieFriends/internal/core/follows"
	"FoodieFriends/internal/core/posts"
	"FoodieFriends/internal/core/users"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// MaxBodyBytes limits JSON request bodies
const MaxBodyBytes = 100 * 1024

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Log encoding errors but don't return error response (headers already sent)
		log.Printf("Failed to encode response: %v", err)
	}
}

// DecodeJSON reads the request body into dst. On failure it writes the error
// response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge", "Request body too large (max 100KB)")
			return false
		}
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return false
	}
	return true
}

// RequireUserID returns the authenticated uid, writing 401 when there is none
func RequireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := middleware.GetUserID(r)
	if uid == "" {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return "", false
	}
	return uid, true
}

// HandleServiceError maps service errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error) {
	switch {
	case users.IsValidationError(err), posts.IsValidationError(err):
		WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, follows.ErrCannotFollowSelf):
		WriteError(w, http.StatusBadRequest, "CannotFollowSelf", err.Error())

	case errors.Is(err, users.ErrEmailTaken):
		WriteError(w, http.StatusBadRequest, "EmailTaken", "Email already registered")

	case errors.Is(err, users.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password")

	case errors.Is(err, posts.ErrNotAuthorized):
		WriteError(w, http.StatusForbidden, "Forbidden", err.Error())

	case errors.Is(err, users.ErrProfileMissing):
		WriteError(w, http.StatusNotFound, "ProfileNotFound", err.Error())

	case errors.Is(err, users.ErrUserNotFound):
		WriteError(w, http.StatusNotFound, "UserNotFound", "User not found")

	case posts.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")

	case users.IsOrphanedIdentity(err):
		log.Printf("ERROR: orphaned identity: %v", err)
		WriteError(w, http.StatusInternalServerError, "OrphanedIdentity",
			"Registration failed and the created account could not be cleaned up")

	case errors.Is(err, users.ErrRegistrationFailed):
		log.Printf("ERROR: registration failed: %v", err)
		WriteError(w, http.StatusInternalServerError, "RegistrationFailed", "Registration failed, please try again")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in handler: %v", err)
		WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
