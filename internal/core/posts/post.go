package posts

import (
	"FoodieFriends/internal/core/users"
	"time"
)

// Collection is the document collection holding posts
const Collection = "posts"

// Kind tells an original post apart from the two derived variants
type Kind string

const (
	KindOriginal Kind = "original"
	KindShare    Kind = "share"
	KindRepost   Kind = "repost"
)

// SetField names one of the id sets carried on a post document
type SetField string

const (
	FieldLikes       SetField = "likes"
	FieldSharedPosts SetField = "sharedPosts"
	FieldReposts     SetField = "reposts"
)

// Comment is an immutable entry in a post's comment sequence
type Comment struct {
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	Body      string    `json:"body" firestore:"body"`
	Author    string    `json:"author" firestore:"author"`
	AuthorUID string    `json:"authorUid" firestore:"authorUid"`
}

// Post is the post document.
//
// A share copies its original's content and keeps the original's uid and
// author; SharedByUID names the sharer. A repost carries the source's author
// name with new content and has no uid; RepostedByUID names the reposter.
type Post struct {
	CreatedAt             time.Time  `json:"createdAt" firestore:"createdAt"`
	EditedAt              *time.Time `json:"editedAt,omitempty" firestore:"editedAt,omitempty"`
	OriginalPostTimestamp *time.Time `json:"originalPostTimestamp,omitempty" firestore:"originalPostTimestamp,omitempty"`
	ID                    string     `json:"id" firestore:"id"`
	Kind                  Kind       `json:"kind" firestore:"kind"`
	Title                 string     `json:"title" firestore:"title"`
	Body                  string     `json:"body" firestore:"body"`
	Author                string     `json:"author" firestore:"author"`
	UID                   string     `json:"uid,omitempty" firestore:"uid,omitempty"`
	OriginalPostID        string     `json:"originalPostId,omitempty" firestore:"originalPostId,omitempty"`
	SharedBy              string     `json:"sharedBy,omitempty" firestore:"sharedBy,omitempty"`
	SharedByUID           string     `json:"sharedByUid,omitempty" firestore:"sharedByUid,omitempty"`
	RepostedBy            string     `json:"repostedBy,omitempty" firestore:"repostedBy,omitempty"`
	RepostedByUID         string     `json:"repostedByUid,omitempty" firestore:"repostedByUid,omitempty"`
	Likes                 []string   `json:"likes" firestore:"likes"`
	Comments              []Comment  `json:"comments" firestore:"comments"`
	SharedPosts           []string   `json:"sharedPosts" firestore:"sharedPosts"`
	Reposts               []string   `json:"reposts" firestore:"reposts"`
	LikeCount             int        `json:"likeCount" firestore:"likeCount"`
}

// IsOriginal reports whether the post is not derived from another post
func (p *Post) IsOriginal() bool {
	return p.Kind == KindOriginal
}

// Derived returns the ids of shares and reposts made from this post
func (p *Post) Derived() []string {
	out := make([]string, 0, len(p.SharedPosts)+len(p.Reposts))
	out = append(out, p.SharedPosts...)
	return append(out, p.Reposts...)
}

// ParentField is the set on the parent post that lists this derived post
func (p *Post) ParentField() (SetField, bool) {
	switch p.Kind {
	case KindShare:
		return FieldSharedPosts, true
	case KindRepost:
		return FieldReposts, true
	default:
		return "", false
	}
}

// CanModify reports whether user may edit or delete the post: admins, the
// owner, and whoever shared or reposted this specific post
func (p *Post) CanModify(user *users.User) bool {
	if user.IsAdmin {
		return true
	}
	if p.UID != "" && p.UID == user.UID {
		return true
	}
	return (p.SharedByUID != "" && p.SharedByUID == user.UID) ||
		(p.RepostedByUID != "" && p.RepostedByUID == user.UID)
}

// inferKind fills Kind for documents written before it was stored
func (p *Post) inferKind() {
	if p.Kind != "" {
		return
	}
	switch {
	case p.OriginalPostID != "" && p.SharedByUID != "":
		p.Kind = KindShare
	case p.OriginalPostID != "" && p.RepostedByUID != "":
		p.Kind = KindRepost
	default:
		p.Kind = KindOriginal
	}
}

// CreatePostRequest is the input for creating a post
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ContentRequest carries new title and body for edits and reposts
type ContentRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Page is one page of the feed. LastVisible is nil on the last page.
type Page struct {
	LastVisible *string `json:"lastVisible"`
	Posts       []*Post `json:"posts"`
}

// CursorFormat is the layout of LastVisible cursors
const CursorFormat = time.RFC3339Nano
