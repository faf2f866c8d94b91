package posts

import (
	"FoodieFriends/internal/docstore"
	"context"
	"time"
)

// Service defines the post graph operations
type Service interface {
	// CreatePost writes an original post and adds it to the actor's posts.
	// The author name comes from the actor's profile.
	CreatePost(ctx context.Context, actorUID string, req CreatePostRequest) (*Post, error)

	// ListPosts returns one page of the feed, newest first. cursor is the
	// LastVisible of the previous page, or empty for the first page.
	ListPosts(ctx context.Context, cursor string) (*Page, error)

	GetPost(ctx context.Context, postID string) (*Post, error)

	// EditPost updates title and body. Editing an original also rewrites its
	// shares; reposts keep their own content.
	EditPost(ctx context.Context, actorUID, postID string, req ContentRequest) (*Post, error)

	// DeletePost removes the post, every post derived from it (transitively),
	// and its id from its parent's set. A missing post is a no-op.
	DeletePost(ctx context.Context, actorUID, postID string) error

	// SharePost copies the original behind postID, following share links
	SharePost(ctx context.Context, actorUID, postID string) (*Post, error)

	// RepostPost creates new content attributed to the author of postID.
	// The repost references postID itself, even when postID is derived.
	RepostPost(ctx context.Context, actorUID, postID string, req ContentRequest) (*Post, error)
}

// Repository defines post document persistence.
// Write methods queue onto a docstore.Batch.
type Repository interface {
	// Get returns ErrPostNotFound when the post does not exist
	Get(ctx context.Context, postID string) (*Post, error)

	// GetMany returns the posts that exist, keyed by id.
	// Missing posts are not included in the result map (no error for missing posts).
	GetMany(ctx context.Context, postIDs []string) (map[string]*Post, error)

	// ListByCreatedAt returns up to limit posts newest first, strictly older than before when set
	ListByCreatedAt(ctx context.Context, before *time.Time, limit int) ([]*Post, error)

	Create(b docstore.Batch, post *Post)
	Delete(b docstore.Batch, postID string)
	SetContent(b docstore.Batch, postID, title, body string, editedAt time.Time)
	AddToSet(b docstore.Batch, postID string, field SetField, ids ...string)
	RemoveFromSet(b docstore.Batch, postID string, field SetField, ids ...string)

	// AddLike and RemoveLike keep likeCount in step with the likes set
	AddLike(b docstore.Batch, postID, uid string)
	RemoveLike(b docstore.Batch, postID, uid string)
	SetLikeCount(b docstore.Batch, postID string, count int)

	AppendComment(b docstore.Batch, postID string, comment Comment)
}
