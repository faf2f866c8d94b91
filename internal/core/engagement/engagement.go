package engagement

import (
	"FoodieFriends/internal/core/posts"
	"context"
)

// LikeState is the post's like state for the actor after a toggle
type LikeState struct {
	PostID    string `json:"postId"`
	Liked     bool   `json:"liked"`
	LikeCount int    `json:"likeCount"`
}

// BookmarkState is the actor's bookmark state after a toggle
type BookmarkState struct {
	PostID     string `json:"postId"`
	Bookmarked bool   `json:"bookmarked"`
}

// CommentRequest is the input for adding a comment
type CommentRequest struct {
	PostID string `json:"postId"`
	Body   string `json:"body"`
}

// Service defines likes, bookmarks, and comments
type Service interface {
	// ToggleLike flips the actor's like on the post and mirrors it into the
	// actor's likedPosts
	ToggleLike(ctx context.Context, actorUID, postID string) (*LikeState, error)

	// ToggleBookmark flips the post in the actor's bookmarks. Removing a
	// bookmark of a deleted post is allowed.
	ToggleBookmark(ctx context.Context, actorUID, postID string) (*BookmarkState, error)

	// AddComment appends a comment signed with the actor's first name.
	// Any authenticated user may comment on any post.
	AddComment(ctx context.Context, actorUID string, req CommentRequest) (*posts.Comment, error)

	// ListLikeNames resolves the post's likes to first names, skipping
	// users whose profile no longer exists
	ListLikeNames(ctx context.Context, postID string) ([]string, error)
}
