package memstore

import (
	"context"
	"testing"
	"time"

	"FoodieFriends/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Count     int       `json:"count"`
}

func seed(t *testing.T, s *Store, id string, n note) {
	t.Helper()
	b := s.Batch()
	b.Create("notes", id, n)
	require.NoError(t, b.Commit(context.Background()))
}

func TestStore_GetAndGetMany(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s, "a", note{Title: "first"})
	seed(t, s, "b", note{Title: "second"})

	doc, err := s.Get(ctx, "notes", "a")
	require.NoError(t, err)
	var got note
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "first", got.Title)

	_, err = s.Get(ctx, "notes", "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	docs, err := s.GetMany(ctx, "notes", []string{"a", "missing", "b"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Contains(t, docs, "a")
	assert.Contains(t, docs, "b")
}

func TestBatch_CreateExistingFails(t *testing.T) {
	s := New()
	seed(t, s, "a", note{Title: "first"})

	b := s.Batch()
	b.Create("notes", "a", note{Title: "again"})
	err := b.Commit(context.Background())
	assert.ErrorIs(t, err, docstore.ErrAlreadyExists)
}

func TestBatch_IsAtomic(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s, "a", note{Title: "first", Count: 1})

	b := s.Batch()
	b.Update("notes", "a", docstore.Increment("count", 1))
	b.Create("notes", "c", note{Title: "third"})
	b.Update("notes", "missing", docstore.Set("title", "x"))
	err := b.Commit(ctx)
	require.ErrorIs(t, err, docstore.ErrNotFound)

	doc, err := s.Get(ctx, "notes", "a")
	require.NoError(t, err)
	var got note
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 1, s.Count("notes"))
}

func TestBatch_UpdateSeesEarlierWritesInSameBatch(t *testing.T) {
	ctx := context.Background()
	s := New()

	b := s.Batch()
	b.Create("notes", "a", note{Title: "first"})
	b.Update("notes", "a", docstore.ArrayUnion("tags", "go"), docstore.Increment("count", 2))
	require.NoError(t, b.Commit(ctx))

	doc, err := s.Get(ctx, "notes", "a")
	require.NoError(t, err)
	var got note
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Equal(t, 2, got.Count)
}

func TestBatch_DeleteThenUpdateFails(t *testing.T) {
	s := New()
	seed(t, s, "a", note{Title: "first"})

	b := s.Batch()
	b.Delete("notes", "a")
	b.Update("notes", "a", docstore.Set("title", "x"))
	assert.ErrorIs(t, b.Commit(context.Background()), docstore.ErrNotFound)
	assert.Equal(t, 1, s.Count("notes"))
}

func TestBatch_CommitTwice(t *testing.T) {
	s := New()
	b := s.Batch()
	b.Create("notes", "a", note{})
	require.NoError(t, b.Commit(context.Background()))
	assert.Error(t, b.Commit(context.Background()))
}

func TestStore_QueryOrdersAndPages(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3", "p4"} {
		seed(t, s, id, note{Title: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	// Documents without the ordering field are excluded
	b := s.Batch()
	b.Set("notes", "raw", map[string]any{"title": "no timestamp"})
	require.NoError(t, b.Commit(ctx))

	docs, err := s.Query(ctx, docstore.Query{Collection: "notes", OrderBy: "createdAt", Descending: true, Limit: 3})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "p4", docs[0].ID)
	assert.Equal(t, "p3", docs[1].ID)
	assert.Equal(t, "p2", docs[2].ID)

	after := base.Add(time.Minute)
	docs, err = s.Query(ctx, docstore.Query{Collection: "notes", OrderBy: "createdAt", Descending: true, After: &after})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID)

	docs, err = s.Query(ctx, docstore.Query{Collection: "notes", OrderBy: "createdAt", After: &after})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p3", docs[0].ID)
}

func TestStore_QueryRequiresOrderBy(t *testing.T) {
	_, err := New().Query(context.Background(), docstore.Query{Collection: "notes"})
	assert.Error(t, err)
}
