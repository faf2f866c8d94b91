package users_test

import (
	"FoodieFriends/internal/auth"
	"FoodieFriends/internal/core/follows"
	"FoodieFriends/internal/core/posts"
	"FoodieFriends/internal/core/users"
	"FoodieFriends/internal/docstore/memstore"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestAccountLifecycle runs register, posting, sharing, following and account
// deletion against real services on the in-memory store
func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	provider, err := auth.NewProvider(store, auth.Config{
		Secret:     []byte("lifecycle-secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, nil)
	require.NoError(t, err)

	userRepo := users.NewRepository(store)
	postRepo := posts.NewRepository(store)
	postSvc := posts.NewPostService(store, postRepo, userRepo, 5, nil)
	userSvc := users.NewUserService(store, userRepo, provider, postSvc, nil)
	followSvc := follows.NewFollowService(store, userRepo, nil)

	alice, err := userSvc.Register(ctx, users.RegisterRequest{Email: "alice@example.com", Password: "Secret#123", FirstName: "Alice"})
	require.NoError(t, err)
	bob, err := userSvc.Register(ctx, users.RegisterRequest{Email: "bob@example.com", Password: "Secret#456", FirstName: "Bob"})
	require.NoError(t, err)

	aliceUID := alice.User.UID
	bobUID := bob.User.UID

	_, err = followSvc.ToggleFollow(ctx, bobUID, aliceUID)
	require.NoError(t, err)
	_, err = followSvc.ToggleFollow(ctx, aliceUID, bobUID)
	require.NoError(t, err)

	original, err := postSvc.CreatePost(ctx, aliceUID, posts.CreatePostRequest{Title: "Bibimbap", Body: "Extra gochujang"})
	require.NoError(t, err)
	share, err := postSvc.SharePost(ctx, bobUID, original.ID)
	require.NoError(t, err)
	bobsOwn, err := postSvc.CreatePost(ctx, bobUID, posts.CreatePostRequest{Title: "Kimchi", Body: "Homemade"})
	require.NoError(t, err)

	require.NoError(t, userSvc.DeleteAccount(ctx, aliceUID))

	_, err = postRepo.Get(ctx, original.ID)
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
	_, err = postRepo.Get(ctx, share.ID)
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
	_, err = postRepo.Get(ctx, bobsOwn.ID)
	assert.NoError(t, err)

	_, err = userRepo.Get(ctx, aliceUID)
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	bobAfter, err := userRepo.Get(ctx, bobUID)
	require.NoError(t, err)
	assert.Empty(t, bobAfter.Following)
	assert.Empty(t, bobAfter.Followers)

	_, err = provider.Verify(ctx, alice.IDToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = userSvc.Login(ctx, users.LoginRequest{Email: "alice@example.com", Password: "Secret#123"})
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	// The email can be registered again
	_, err = userSvc.Register(ctx, users.RegisterRequest{Email: "alice@example.com", Password: "Secret#789", FirstName: "Alice"})
	assert.NoError(t, err)
}
