package posts

import (
	"FoodieFriends/internal/core/users"
	"FoodieFriends/internal/docstore"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultPageSize is the feed page size when none is configured
	DefaultPageSize = 5

	// maxIDAttempts bounds retries when a generated post id is already taken
	maxIDAttempts = 5

	// maxShareDepth bounds the originalPostId walk when resolving a share target
	maxShareDepth = 32
)

type postService struct {
	store    docstore.Store
	repo     Repository
	users    users.Repository
	logger   *slog.Logger
	now      func() time.Time
	pageSize int
}

// NewPostService creates the post graph service
func NewPostService(store docstore.Store, repo Repository, userRepo users.Repository, pageSize int, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &postService{
		store:    store,
		repo:     repo,
		users:    userRepo,
		logger:   logger,
		now:      time.Now,
		pageSize: pageSize,
	}
}

func (s *postService) CreatePost(ctx context.Context, actorUID string, req CreatePostRequest) (*Post, error) {
	title, body, err := validateContent(req.Title, req.Body)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		return nil, err
	}

	post, err := s.insert(ctx, actor.UID, actor.UID, func(id string, createdAt time.Time) *Post {
		p := newPost(id, KindOriginal, createdAt)
		p.Title = title
		p.Body = body
		p.Author = actor.FirstName
		p.UID = actor.UID
		return p
	}, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created", "post_id", post.ID, "actor", actor.UID)
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, cursor string) (*Page, error) {
	var before *time.Time
	if cursor != "" {
		t, err := time.Parse(CursorFormat, cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
		}
		before = &t
	}

	// One extra row tells us whether another page exists
	list, err := s.repo.ListByCreatedAt(ctx, before, s.pageSize+1)
	if err != nil {
		return nil, err
	}

	page := &Page{Posts: list}
	if len(list) > s.pageSize {
		page.Posts = list[:s.pageSize]
		last := page.Posts[len(page.Posts)-1].CreatedAt.UTC().Format(CursorFormat)
		page.LastVisible = &last
	}
	return page, nil
}

func (s *postService) GetPost(ctx context.Context, postID string) (*Post, error) {
	return s.repo.Get(ctx, postID)
}

func (s *postService) EditPost(ctx context.Context, actorUID, postID string, req ContentRequest) (*Post, error) {
	title, body, err := validateContent(req.Title, req.Body)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		return nil, err
	}
	post, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.CanModify(actor) {
		return nil, ErrNotAuthorized
	}

	editedAt := s.timestamp()
	b := s.store.Batch()
	s.repo.SetContent(b, post.ID, title, body, editedAt)

	propagated := 0
	if post.IsOriginal() && len(post.SharedPosts) > 0 {
		shares, err := s.repo.GetMany(ctx, post.SharedPosts)
		if err != nil {
			return nil, err
		}
		var stale []string
		for _, id := range post.SharedPosts {
			if _, ok := shares[id]; !ok {
				stale = append(stale, id)
				continue
			}
			s.repo.SetContent(b, id, title, body, editedAt)
			propagated++
		}
		s.repo.RemoveFromSet(b, post.ID, FieldSharedPosts, stale...)
	}

	if err := b.Commit(ctx); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to edit post %s: %w", post.ID, err)
	}

	s.logger.Info("post edited", "post_id", post.ID, "actor", actor.UID, "shares_updated", propagated)

	post.Title = title
	post.Body = body
	post.EditedAt = &editedAt
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, actorUID, postID string) error {
	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		return err
	}
	post, err := s.repo.Get(ctx, postID)
	if errors.Is(err, ErrPostNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !post.CanModify(actor) {
		return ErrNotAuthorized
	}

	doomed, err := s.collectDerived(ctx, post)
	if err != nil {
		return err
	}

	b := s.store.Batch()
	if field, ok := post.ParentField(); ok {
		if _, inCascade := doomed[post.OriginalPostID]; !inCascade {
			// The parent may already be gone; an update on it would fail the batch
			parents, err := s.repo.GetMany(ctx, []string{post.OriginalPostID})
			if err != nil {
				return err
			}
			if _, exists := parents[post.OriginalPostID]; exists {
				s.repo.RemoveFromSet(b, post.OriginalPostID, field, post.ID)
			}
		}
	}
	for id := range doomed {
		s.repo.Delete(b, id)
	}

	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", post.ID, err)
	}

	s.logger.Info("post deleted", "post_id", post.ID, "actor", actor.UID, "cascade", len(doomed)-1)
	return nil
}

// collectDerived walks sharedPosts and reposts breadth-first and returns the
// ids of root and every existing post derived from it
func (s *postService) collectDerived(ctx context.Context, root *Post) (map[string]struct{}, error) {
	seen := map[string]struct{}{root.ID: {}}
	frontier := []*Post{root}
	for len(frontier) > 0 {
		var ids []string
		for _, p := range frontier {
			for _, id := range p.Derived() {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			break
		}
		found, err := s.repo.GetMany(ctx, ids)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range ids {
			if p, ok := found[id]; ok {
				frontier = append(frontier, p)
			} else {
				// Stale back-reference; deleting an absent document is fine
				delete(seen, id)
			}
		}
	}
	return seen, nil
}

func (s *postService) SharePost(ctx context.Context, actorUID, postID string) (*Post, error) {
	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		return nil, err
	}
	original, err := s.resolveOriginal(ctx, postID)
	if err != nil {
		return nil, err
	}

	share, err := s.insert(ctx, actor.UID, actor.UID+"_shared", func(id string, createdAt time.Time) *Post {
		p := newPost(id, KindShare, createdAt)
		p.Title = original.Title
		p.Body = original.Body
		p.Author = original.Author
		p.UID = original.UID
		p.OriginalPostID = original.ID
		originalAt := original.CreatedAt
		p.OriginalPostTimestamp = &originalAt
		p.SharedBy = actor.FirstName
		p.SharedByUID = actor.UID
		return p
	}, func(b docstore.Batch, id string) {
		s.repo.AddToSet(b, original.ID, FieldSharedPosts, id)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post shared", "post_id", share.ID, "original_post_id", original.ID, "actor", actor.UID)
	return share, nil
}

// resolveOriginal follows originalPostId links until it reaches an original post
func (s *postService) resolveOriginal(ctx context.Context, postID string) (*Post, error) {
	id := postID
	for depth := 0; depth < maxShareDepth; depth++ {
		post, err := s.repo.Get(ctx, id)
		if errors.Is(err, ErrPostNotFound) {
			if id == postID {
				return nil, ErrPostNotFound
			}
			return nil, NewNotFoundError("original post", id)
		}
		if err != nil {
			return nil, err
		}
		if post.IsOriginal() {
			return post, nil
		}
		id = post.OriginalPostID
	}
	return nil, fmt.Errorf("post %s: origin chain deeper than %d", postID, maxShareDepth)
}

func (s *postService) RepostPost(ctx context.Context, actorUID, postID string, req ContentRequest) (*Post, error) {
	title, body, err := validateContent(req.Title, req.Body)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		return nil, err
	}
	source, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	repost, err := s.insert(ctx, actor.UID, actor.UID+"_repost", func(id string, createdAt time.Time) *Post {
		p := newPost(id, KindRepost, createdAt)
		p.Title = title
		p.Body = body
		p.Author = source.Author
		p.OriginalPostID = source.ID
		p.RepostedBy = actor.FirstName
		p.RepostedByUID = actor.UID
		return p
	}, func(b docstore.Batch, id string) {
		s.repo.AddToSet(b, source.ID, FieldReposts, id)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post reposted", "post_id", repost.ID, "source_post_id", source.ID, "actor", actor.UID)
	return repost, nil
}

// insert commits a new post together with the actor's posts entry and, for
// derived posts, the parent's back-reference. Ids are prefix_unixmillis; a
// taken id is retried with the next millisecond.
func (s *postService) insert(
	ctx context.Context,
	actorUID, prefix string,
	build func(id string, createdAt time.Time) *Post,
	link func(b docstore.Batch, id string),
) (*Post, error) {
	createdAt := s.timestamp()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := fmt.Sprintf("%s_%d", prefix, createdAt.UnixMilli()+int64(attempt))
		post := build(id, createdAt)

		b := s.store.Batch()
		s.repo.Create(b, post)
		if link != nil {
			link(b, id)
		}
		s.users.AddToSet(b, actorUID, users.FieldPosts, id)

		err := b.Commit(ctx)
		switch {
		case err == nil:
			return post, nil
		case errors.Is(err, docstore.ErrAlreadyExists):
			continue
		case errors.Is(err, docstore.ErrNotFound):
			// The actor or the parent disappeared between read and commit
			if link != nil {
				return nil, ErrPostNotFound
			}
			return nil, users.ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to create post %s: %w", id, err)
		}
	}
	return nil, fmt.Errorf("failed to allocate a post id for %s after %d attempts", prefix, maxIDAttempts)
}

func (s *postService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func newPost(id string, kind Kind, createdAt time.Time) *Post {
	return &Post{
		ID:          id,
		Kind:        kind,
		CreatedAt:   createdAt,
		Likes:       []string{},
		Comments:    []Comment{},
		SharedPosts: []string{},
		Reposts:     []string{},
	}
}

func validateContent(title, body string) (string, string, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return "", "", NewValidationError("title", "title is required")
	}
	if body == "" {
		return "", "", NewValidationError("body", "body is required")
	}
	return title, body, nil
}
