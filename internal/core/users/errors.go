package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrProfileMissing is returned when an identity authenticates but has no
	// profile document
	ErrProfileMissing = errors.New("user details not found in the database")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already has an identity
	ErrEmailTaken = errors.New("email already registered")

	// ErrRegistrationFailed is returned when the profile could not be written and
	// the identity created for it was rolled back
	ErrRegistrationFailed = errors.New("registration failed")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	var weakErr *WeakPasswordError
	return errors.As(err, &valErr) || errors.As(err, &weakErr)
}

type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password does not meet strength requirements: %s", e.Reason)
}

// OrphanedIdentityError is returned when registration failed after the identity
// was created and the identity could not be removed again
type OrphanedIdentityError struct {
	Cause      error
	CleanupErr error
	UID        string
}

func (e *OrphanedIdentityError) Error() string {
	return fmt.Sprintf("identity %s left without profile: %v (cleanup failed: %v)", e.UID, e.Cause, e.CleanupErr)
}

func (e *OrphanedIdentityError) Unwrap() error {
	return e.Cause
}

// IsOrphanedIdentity checks if error is an orphaned identity error
func IsOrphanedIdentity(err error) bool {
	var orphanErr *OrphanedIdentityError
	return errors.As(err, &orphanErr)
}
