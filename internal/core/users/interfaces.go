package users

import (
	"FoodieFriends/internal/docstore"
	"context"
)

// Repository defines user document persistence.
// Write methods queue onto a docstore.Batch so that callers can commit user
// changes together with changes to other documents.
type Repository interface {
	// Get returns ErrUserNotFound when the profile does not exist
	Get(ctx context.Context, uid string) (*User, error)

	// GetMany returns the profiles that exist, keyed by uid.
	// Missing users are not included in the result map (no error for missing users).
	GetMany(ctx context.Context, uids []string) (map[string]*User, error)

	Create(b docstore.Batch, user *User)
	Delete(b docstore.Batch, uid string)
	AddToSet(b docstore.Batch, uid string, field SetField, ids ...string)
	RemoveFromSet(b docstore.Batch, uid string, field SetField, ids ...string)
	SetFirstName(b docstore.Batch, uid, firstName string)

	// PruneReferences removes ids that no longer resolve from one of the user's
	// sets and commits immediately. Used by reads that find dangling ids.
	PruneReferences(ctx context.Context, uid string, field SetField, stale []string) error
}

// IdentityProvider owns credentials and bearer tokens
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
	SetPassword(ctx context.Context, uid, password string) error
	IssueToken(uid string) (string, error)
}

// PostDeleter runs the post delete cascade on behalf of an actor.
// A missing post must be a no-op.
type PostDeleter interface {
	DeletePost(ctx context.Context, actorUID, postID string) error
}

// Service defines the account lifecycle operations
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	ChangePassword(ctx context.Context, uid, newPassword string) error
	UpdateName(ctx context.Context, uid, firstName string) error

	// DeleteAccount removes every post the user owns or derived, the profile,
	// and finally the identity
	DeleteAccount(ctx context.Context, uid string) error
}
