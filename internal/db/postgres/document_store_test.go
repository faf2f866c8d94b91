package postgres

import (
	"FoodieFriends/internal/docstore"
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPost struct {
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Likes     []string  `json:"likes"`
	LikeCount int       `json:"likeCount"`
}

// setupTestStore connects to TEST_DATABASE_URL, runs migrations and returns a
// store scoped to a unique collection name
func setupTestStore(t *testing.T) (docstore.Store, string) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.Ping())
	require.NoError(t, Migrate(db), "Failed to run migrations")

	collection := "test_" + time.Now().Format("150405.000000000")
	t.Cleanup(func() {
		_, err := db.Exec(`DELETE FROM documents WHERE collection = $1`, collection)
		assert.NoError(t, err)
		_ = db.Close()
	})

	return NewDocumentStore(db), collection
}

func TestDocumentStore_CreateGetUpdateDelete(t *testing.T) {
	store, collection := setupTestStore(t)
	ctx := context.Background()

	b := store.Batch()
	b.Create(collection, "p1", testPost{Title: "first", CreatedAt: time.Now().UTC()})
	require.NoError(t, b.Commit(ctx))

	b = store.Batch()
	b.Create(collection, "p1", testPost{Title: "dup"})
	assert.ErrorIs(t, b.Commit(ctx), docstore.ErrAlreadyExists)

	b = store.Batch()
	b.Update(collection, "p1",
		docstore.ArrayUnion("likes", "u1", "u1"),
		docstore.Increment("likeCount", 1),
		docstore.Set("title", "edited"),
	)
	require.NoError(t, b.Commit(ctx))

	doc, err := store.Get(ctx, collection, "p1")
	require.NoError(t, err)
	var got testPost
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, []string{"u1"}, got.Likes)
	assert.Equal(t, 1, got.LikeCount)

	b = store.Batch()
	b.Delete(collection, "p1")
	require.NoError(t, b.Commit(ctx))

	_, err = store.Get(ctx, collection, "p1")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDocumentStore_BatchRollsBack(t *testing.T) {
	store, collection := setupTestStore(t)
	ctx := context.Background()

	b := store.Batch()
	b.Create(collection, "a", testPost{Title: "a"})
	b.Update(collection, "missing", docstore.Set("title", "x"))
	assert.ErrorIs(t, b.Commit(ctx), docstore.ErrNotFound)

	_, err := store.Get(ctx, collection, "a")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDocumentStore_QueryAndGetMany(t *testing.T) {
	store, collection := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	b := store.Batch()
	for i, id := range []string{"p1", "p2", "p3"} {
		b.Create(collection, id, testPost{Title: id, CreatedAt: base.Add(time.Duration(i) * time.Second)})
	}
	require.NoError(t, b.Commit(ctx))

	docs, err := store.Query(ctx, docstore.Query{Collection: collection, OrderBy: "createdAt", Descending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p3", docs[0].ID)
	assert.Equal(t, "p2", docs[1].ID)

	cursor := base.Add(time.Second)
	docs, err = store.Query(ctx, docstore.Query{Collection: collection, OrderBy: "createdAt", Descending: true, After: &cursor})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID)

	many, err := store.GetMany(ctx, collection, []string{"p1", "nope", "p3"})
	require.NoError(t, err)
	assert.Len(t, many, 2)
}
