package firestore

import (
	"FoodieFriends/internal/docstore"
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFirestoreUpdates(t *testing.T) {
	got := toFirestoreUpdates([]docstore.Update{
		docstore.Set("title", "new"),
		docstore.ArrayUnion("likes", "u1"),
		docstore.ArrayRemove("bookmarks", "p1", "p2"),
		docstore.Increment("likeCount", -1),
	})

	require.Len(t, got, 4)
	assert.Equal(t, firestore.Update{Path: "title", Value: "new"}, got[0])
	assert.Equal(t, firestore.Update{Path: "likes", Value: firestore.ArrayUnion("u1")}, got[1])
	assert.Equal(t, firestore.Update{Path: "bookmarks", Value: firestore.ArrayRemove("p1", "p2")}, got[2])
	assert.Equal(t, firestore.Update{Path: "likeCount", Value: firestore.Increment(int64(-1))}, got[3])
}

type emulatorDoc struct {
	CreatedAt time.Time `firestore:"createdAt"`
	Title     string    `firestore:"title"`
	Likes     []string  `firestore:"likes"`
}

// Runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set
func TestDocumentStore_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	store, err := NewDocumentStore(ctx, "foodiefriends-test")
	require.NoError(t, err)
	defer store.Close()

	collection := "test_" + time.Now().Format("150405.000000000")

	b := store.Batch()
	b.Create(collection, "p1", emulatorDoc{Title: "first", CreatedAt: time.Now().UTC()})
	require.NoError(t, b.Commit(ctx))

	b = store.Batch()
	b.Create(collection, "p1", emulatorDoc{Title: "again"})
	assert.ErrorIs(t, b.Commit(ctx), docstore.ErrAlreadyExists)

	b = store.Batch()
	b.Update(collection, "missing", docstore.Set("title", "x"))
	assert.ErrorIs(t, b.Commit(ctx), docstore.ErrNotFound)

	b = store.Batch()
	b.Update(collection, "p1", docstore.ArrayUnion("likes", "u1"))
	require.NoError(t, b.Commit(ctx))

	doc, err := store.Get(ctx, collection, "p1")
	require.NoError(t, err)
	var got emulatorDoc
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, []string{"u1"}, got.Likes)

	_, err = store.Get(ctx, collection, "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
