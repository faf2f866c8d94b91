package users

import (
	"FoodieFriends/internal/auth"
	"FoodieFriends/internal/docstore"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

type userService struct {
	store    docstore.Store
	repo     Repository
	identity IdentityProvider
	posts    PostDeleter
	logger   *slog.Logger
	now      func() time.Time
}

// NewUserService creates the account lifecycle service
func NewUserService(store docstore.Store, repo Repository, identity IdentityProvider, posts PostDeleter, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		store:    store,
		repo:     repo,
		identity: identity,
		posts:    posts,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates the identity, then the profile. A failed profile write
// removes the identity again.
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	email := strings.TrimSpace(req.Email)
	firstName := strings.TrimSpace(req.FirstName)

	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if firstName == "" {
		return nil, NewValidationError("firstName", "first name is required")
	}
	if email == "" {
		return nil, NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewValidationError("email", "invalid email address")
	}

	uid, err := s.identity.CreateAccount(ctx, email, req.Password)
	if err != nil {
		return nil, mapIdentityError(err)
	}

	user := &User{
		UID:        uid,
		Email:      email,
		FirstName:  firstName,
		Following:  []string{},
		Followers:  []string{},
		Posts:      []string{},
		LikedPosts: []string{},
		Bookmarks:  []string{},
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
	}

	b := s.store.Batch()
	s.repo.Create(b, user)
	if err := b.Commit(ctx); err != nil {
		s.logger.Error("failed to create profile, removing identity", "uid", uid, "error", err)
		if cleanupErr := s.identity.DeleteAccount(ctx, uid); cleanupErr != nil {
			s.logger.Error("failed to remove identity after profile failure", "uid", uid, "error", cleanupErr)
			return nil, &OrphanedIdentityError{UID: uid, Cause: err, CleanupErr: cleanupErr}
		}
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	token, err := s.identity.IssueToken(uid)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "uid", uid)
	return &Session{User: user, IDToken: token}, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	uid, err := s.identity.Authenticate(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, mapIdentityError(err)
	}

	user, err := s.repo.Get(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		s.logger.Warn("identity has no profile", "uid", uid)
		return nil, ErrProfileMissing
	}
	if err != nil {
		return nil, err
	}

	token, err := s.identity.IssueToken(uid)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, IDToken: token}, nil
}

func (s *userService) ChangePassword(ctx context.Context, uid, newPassword string) error {
	if newPassword == "" {
		return NewValidationError("newPassword", "new password is required")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if err := s.identity.SetPassword(ctx, uid, newPassword); err != nil {
		return mapIdentityError(err)
	}
	s.logger.Info("password changed", "uid", uid)
	return nil
}

// UpdateName changes firstName. Author names already copied onto posts are
// left as they are.
func (s *userService) UpdateName(ctx context.Context, uid, firstName string) error {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return NewValidationError("firstName", "invalid first name provided")
	}
	if _, err := s.repo.Get(ctx, uid); err != nil {
		return err
	}

	b := s.store.Batch()
	s.repo.SetFirstName(b, uid, firstName)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("failed to update name: %w", err)
	}
	return nil
}

// DeleteAccount cascades in the order posts, profile, identity. A failure
// before the identity is removed leaves the caller able to log in and retry.
func (s *userService) DeleteAccount(ctx context.Context, uid string) error {
	user, err := s.repo.Get(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		// A previous attempt removed the profile but not the identity
		s.logger.Warn("deleting identity without profile", "uid", uid)
		return s.deleteIdentity(ctx, uid)
	}
	if err != nil {
		return err
	}

	for _, postID := range user.Posts {
		if err := s.posts.DeletePost(ctx, uid, postID); err != nil {
			return fmt.Errorf("failed to delete post %s: %w", postID, err)
		}
	}

	// Drop the uid from the other side of every follow edge
	related := make([]string, 0, len(user.Following)+len(user.Followers))
	related = append(related, user.Following...)
	related = append(related, user.Followers...)
	existing, err := s.repo.GetMany(ctx, related)
	if err != nil {
		return err
	}

	b := s.store.Batch()
	for _, followed := range user.Following {
		if _, ok := existing[followed]; ok && followed != uid {
			s.repo.RemoveFromSet(b, followed, FieldFollowers, uid)
		}
	}
	for _, follower := range user.Followers {
		if _, ok := existing[follower]; ok && follower != uid {
			s.repo.RemoveFromSet(b, follower, FieldFollowing, uid)
		}
	}
	s.repo.Delete(b, uid)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := s.deleteIdentity(ctx, uid); err != nil {
		return err
	}

	s.logger.Info("account deleted", "uid", uid, "posts", len(user.Posts))
	return nil
}

func (s *userService) deleteIdentity(ctx context.Context, uid string) error {
	if err := s.identity.DeleteAccount(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}

func mapIdentityError(err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		return ErrEmailTaken
	case errors.Is(err, auth.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, auth.ErrAccountNotFound):
		return ErrUserNotFound
	case errors.Is(err, auth.ErrPasswordTooLong):
		return &WeakPasswordError{Reason: "must be at most 72 bytes"}
	default:
		return fmt.Errorf("identity provider: %w", err)
	}
}
