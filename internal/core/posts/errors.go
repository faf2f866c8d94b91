package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrPostNotFound is returned when a post id does not resolve
	ErrPostNotFound = errors.New("post not found")

	// ErrNotAuthorized is returned when the actor is neither an admin, the
	// owner, nor the sharer or reposter of the post
	ErrNotAuthorized = errors.New("you can only modify your own posts or you need admin rights")

	// ErrInvalidCursor is returned for a lastVisible value that is not a timestamp
	ErrInvalidCursor = errors.New("invalid lastVisible cursor")
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
	return errors.As(err, &valErr) || errors.Is(err, ErrInvalidCursor)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string // e.g., "post", "original post"
	ID       string // Resource identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrPostNotFound)
}
