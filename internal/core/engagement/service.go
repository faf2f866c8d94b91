package engagement

import (
	"FoodieFriends/internal/core/posts"
	"FoodieFriends/internal/core/users"
	"FoodieFriends/internal/docstore"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

type engagementService struct {
	store  docstore.Store
	posts  posts.Repository
	users  users.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewEngagementService creates the like, bookmark, and comment service
func NewEngagementService(store docstore.Store, postRepo posts.Repository, userRepo users.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &engagementService{
		store:  store,
		posts:  postRepo,
		users:  userRepo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *engagementService) ToggleLike(ctx context.Context, actorUID, postID string) (*LikeState, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, actorUID); err != nil {
		return nil, err
	}

	liked := !slices.Contains(post.Likes, actorUID)
	count := post.LikeCount

	b := s.store.Batch()
	if liked {
		s.posts.AddLike(b, post.ID, actorUID)
		s.users.AddToSet(b, actorUID, users.FieldLikedPosts, post.ID)
		count++
	} else {
		s.posts.RemoveLike(b, post.ID, actorUID)
		s.users.RemoveFromSet(b, actorUID, users.FieldLikedPosts, post.ID)
		count--
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to toggle like on %s: %w", post.ID, err)
	}

	s.logger.Debug("like toggled", "post_id", post.ID, "actor", actorUID, "liked", liked)
	return &LikeState{PostID: post.ID, Liked: liked, LikeCount: max(count, 0)}, nil
}

func (s *engagementService) ToggleBookmark(ctx context.Context, actorUID, postID string) (*BookmarkState, error) {
	if postID == "" {
		return nil, posts.NewValidationError("postId", "post id is required")
	}
	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		return nil, err
	}

	bookmarked := !slices.Contains(actor.Bookmarks, postID)

	b := s.store.Batch()
	if bookmarked {
		if _, err := s.posts.Get(ctx, postID); err != nil {
			return nil, err
		}
		s.users.AddToSet(b, actor.UID, users.FieldBookmarks, postID)
	} else {
		s.users.RemoveFromSet(b, actor.UID, users.FieldBookmarks, postID)
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to toggle bookmark on %s: %w", postID, err)
	}

	return &BookmarkState{PostID: postID, Bookmarked: bookmarked}, nil
}

func (s *engagementService) AddComment(ctx context.Context, actorUID string, req CommentRequest) (*posts.Comment, error) {
	body := strings.TrimSpace(req.Body)
	if req.PostID == "" {
		return nil, posts.NewValidationError("postId", "post id is required")
	}
	if body == "" {
		return nil, posts.NewValidationError("body", "comment body is required")
	}

	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.Get(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	comment := posts.Comment{
		Body:      body,
		Author:    actor.FirstName,
		AuthorUID: actor.UID,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	b := s.store.Batch()
	s.posts.AppendComment(b, post.ID, comment)
	if err := s.commit(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to add comment to %s: %w", post.ID, err)
	}

	s.logger.Info("comment added", "post_id", post.ID, "actor", actor.UID)
	return &comment, nil
}

func (s *engagementService) ListLikeNames(ctx context.Context, postID string) ([]string, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.users.GetMany(ctx, post.Likes)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(post.Likes))
	for _, uid := range post.Likes {
		if u, ok := profiles[uid]; ok {
			names = append(names, u.FirstName)
		}
	}
	return names, nil
}

// commit maps a document vanishing between read and commit to the
// corresponding not found error
func (s *engagementService) commit(ctx context.Context, b docstore.Batch) error {
	err := b.Commit(ctx)
	if errors.Is(err, docstore.ErrNotFound) {
		return posts.ErrPostNotFound
	}
	return err
}
