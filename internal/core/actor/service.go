// Package actor serves read aggregations over one user's sets: the posts they
// wrote, liked, or bookmarked, their statistics, and their profile.
package actor

import (
	"FoodieFriends/internal/core/posts"
	"FoodieFriends/internal/core/users"
	"context"
	"encoding/json"
	"log/slog"
)

// Profile is a user profile as seen by a viewer. The owner sees every field;
// anyone else sees the public projection.
type Profile struct {
	Full   *users.User
	Public *users.PublicProfile
}

// IsSelf reports whether the viewer is the profile owner
func (p *Profile) IsSelf() bool {
	return p.Full != nil
}

// MarshalJSON encodes whichever view the viewer is allowed to see
func (p *Profile) MarshalJSON() ([]byte, error) {
	if p.Full != nil {
		return json.Marshal(p.Full)
	}
	return json.Marshal(p.Public)
}

// Service defines the per-user read aggregations
type Service interface {
	ListUserPosts(ctx context.Context, uid string) ([]*posts.Post, error)
	ListLikedPosts(ctx context.Context, uid string) ([]*posts.Post, error)
	ListBookmarkedPosts(ctx context.Context, uid string) ([]*posts.Post, error)
	Statistics(ctx context.Context, uid string) (*users.Statistics, error)
	GetProfile(ctx context.Context, viewerUID, uid string) (*Profile, error)
}

type actorService struct {
	posts  posts.Repository
	users  users.Repository
	logger *slog.Logger
}

// NewActorService creates the read aggregation service
func NewActorService(postRepo posts.Repository, userRepo users.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &actorService{posts: postRepo, users: userRepo, logger: logger}
}

func (s *actorService) ListUserPosts(ctx context.Context, uid string) ([]*posts.Post, error) {
	return s.listSet(ctx, uid, users.FieldPosts)
}

func (s *actorService) ListLikedPosts(ctx context.Context, uid string) ([]*posts.Post, error) {
	return s.listSet(ctx, uid, users.FieldLikedPosts)
}

func (s *actorService) ListBookmarkedPosts(ctx context.Context, uid string) ([]*posts.Post, error) {
	return s.listSet(ctx, uid, users.FieldBookmarks)
}

// listSet resolves the post ids in one of the user's sets, keeping set order.
// Ids that no longer resolve are pruned from the set after the read; a failed
// prune is logged and the read still succeeds.
func (s *actorService) listSet(ctx context.Context, uid string, field users.SetField) ([]*posts.Post, error) {
	user, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	ids := user.Set(field)
	found, err := s.posts.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*posts.Post, 0, len(found))
	var stale []string
	for _, id := range ids {
		if p, ok := found[id]; ok {
			result = append(result, p)
		} else {
			stale = append(stale, id)
		}
	}

	if len(stale) > 0 {
		if err := s.users.PruneReferences(ctx, uid, field, stale); err != nil {
			s.logger.Warn("failed to prune stale post references",
				"uid", uid, "field", string(field), "count", len(stale), "error", err)
		} else {
			s.logger.Debug("pruned stale post references", "uid", uid, "field", string(field), "count", len(stale))
		}
	}
	return result, nil
}

func (s *actorService) Statistics(ctx context.Context, uid string) (*users.Statistics, error) {
	user, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return user.Statistics(), nil
}

func (s *actorService) GetProfile(ctx context.Context, viewerUID, uid string) (*Profile, error) {
	user, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if viewerUID == user.UID {
		return &Profile{Full: user}, nil
	}
	return &Profile{Public: user.Public()}, nil
}
