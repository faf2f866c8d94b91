package follows

import (
	"FoodieFriends/internal/core/users"
	"FoodieFriends/internal/docstore"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// ErrCannotFollowSelf is returned when the actor targets their own profile
var ErrCannotFollowSelf = errors.New("you cannot follow yourself")

// Result is the follow state after a toggle
type Result struct {
	TargetUID string `json:"targetUid"`
	Following bool   `json:"following"`
}

// Service defines the social graph operations
type Service interface {
	// ToggleFollow follows target when the actor does not follow them yet,
	// otherwise unfollows. Both sides of the edge are written in one batch.
	ToggleFollow(ctx context.Context, actorUID, targetUID string) (*Result, error)
}

type followService struct {
	store  docstore.Store
	users  users.Repository
	logger *slog.Logger
}

// NewFollowService creates the social graph service
func NewFollowService(store docstore.Store, userRepo users.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &followService{store: store, users: userRepo, logger: logger}
}

func (s *followService) ToggleFollow(ctx context.Context, actorUID, targetUID string) (*Result, error) {
	if actorUID == targetUID {
		return nil, ErrCannotFollowSelf
	}

	found, err := s.users.GetMany(ctx, []string{actorUID, targetUID})
	if err != nil {
		return nil, err
	}
	actor, ok := found[actorUID]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	if _, ok := found[targetUID]; !ok {
		return nil, users.ErrUserNotFound
	}

	following := !slices.Contains(actor.Following, targetUID)

	b := s.store.Batch()
	if following {
		s.users.AddToSet(b, actorUID, users.FieldFollowing, targetUID)
		s.users.AddToSet(b, targetUID, users.FieldFollowers, actorUID)
	} else {
		s.users.RemoveFromSet(b, actorUID, users.FieldFollowing, targetUID)
		s.users.RemoveFromSet(b, targetUID, users.FieldFollowers, actorUID)
	}
	if err := b.Commit(ctx); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to toggle follow %s -> %s: %w", actorUID, targetUID, err)
	}

	s.logger.Info("follow toggled", "actor", actorUID, "target", targetUID, "following", following)
	return &Result{TargetUID: targetUID, Following: following}, nil
}
