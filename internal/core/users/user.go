package users

import (
	"time"
)

// Collection is the document collection holding user profiles, keyed by uid
const Collection = "users"

// SetField names one of the id sets carried on a user document
type SetField string

const (
	FieldFollowing  SetField = "following"
	FieldFollowers  SetField = "followers"
	FieldPosts      SetField = "posts"
	FieldLikedPosts SetField = "likedPosts"
	FieldBookmarks  SetField = "bookmarks"
)

// User is the profile document. The uid equals the identity provider's id.
// The id slices are sets: writers use array union/remove so they never hold duplicates.
type User struct {
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
	UID        string    `json:"uid" firestore:"uid"`
	Email      string    `json:"email" firestore:"email"`
	FirstName  string    `json:"firstName" firestore:"firstName"`
	Following  []string  `json:"following" firestore:"following"`
	Followers  []string  `json:"followers" firestore:"followers"`
	Posts      []string  `json:"posts" firestore:"posts"`
	LikedPosts []string  `json:"likedPosts" firestore:"likedPosts"`
	Bookmarks  []string  `json:"bookmarks" firestore:"bookmarks"`
	IsAdmin    bool      `json:"isAdmin" firestore:"isAdmin"`
}

// Set returns the ids stored under field
func (u *User) Set(field SetField) []string {
	switch field {
	case FieldFollowing:
		return u.Following
	case FieldFollowers:
		return u.Followers
	case FieldPosts:
		return u.Posts
	case FieldLikedPosts:
		return u.LikedPosts
	case FieldBookmarks:
		return u.Bookmarks
	default:
		return nil
	}
}

// PublicProfile is what other users see on /user/{uid}
type PublicProfile struct {
	UID            string   `json:"uid"`
	FirstName      string   `json:"firstName"`
	Email          string   `json:"email"`
	Posts          []string `json:"posts"`
	FollowersCount int      `json:"followersCount"`
	FollowingCount int      `json:"followingCount"`
}

// Public projects the profile for a viewer other than its owner
func (u *User) Public() *PublicProfile {
	posts := u.Posts
	if posts == nil {
		posts = []string{}
	}
	return &PublicProfile{
		UID:            u.UID,
		FirstName:      u.FirstName,
		Email:          u.Email,
		Posts:          posts,
		FollowersCount: len(u.Followers),
		FollowingCount: len(u.Following),
	}
}

// Statistics holds set cardinalities for a user
type Statistics struct {
	FollowingCount  int `json:"followingCount"`
	FollowersCount  int `json:"followersCount"`
	LikedPostsCount int `json:"likedPostsCount"`
	PostsCount      int `json:"postsCount"`
	BookmarkedCount int `json:"bookmarkedCount"`
}

// Statistics counts the user's sets
func (u *User) Statistics() *Statistics {
	return &Statistics{
		FollowingCount:  len(u.Following),
		FollowersCount:  len(u.Followers),
		LikedPostsCount: len(u.LikedPosts),
		PostsCount:      len(u.Posts),
		BookmarkedCount: len(u.Bookmarks),
	}
}

// RegisterRequest is the input for account registration
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
}

// LoginRequest is the input for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by register and login
type Session struct {
	User    *User  `json:"user"`
	IDToken string `json:"idToken"`
}
