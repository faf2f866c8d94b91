package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testComment struct {
	CreatedAt time.Time `json:"createdAt"`
	Body      string    `json:"body"`
}

func TestApplyUpdates_ArrayUnionCreatesAndDeduplicates(t *testing.T) {
	doc := map[string]any{}

	require.NoError(t, ApplyUpdates(doc, []Update{ArrayUnion("likes", "a", "b")}))
	require.NoError(t, ApplyUpdates(doc, []Update{ArrayUnion("likes", "b", "c")}))

	assert.Equal(t, []any{"a", "b", "c"}, doc["likes"])
}

func TestApplyUpdates_ArrayRemove(t *testing.T) {
	doc := map[string]any{"likes": []any{"a", "b", "a", "c"}}

	require.NoError(t, ApplyUpdates(doc, []Update{ArrayRemove("likes", "a", "missing")}))

	assert.Equal(t, []any{"b", "c"}, doc["likes"])
}

func TestApplyUpdates_ArrayRemoveOnAbsentField(t *testing.T) {
	doc := map[string]any{}

	require.NoError(t, ApplyUpdates(doc, []Update{ArrayRemove("bookmarks", "x")}))

	assert.Equal(t, []any{}, doc["bookmarks"])
}

func TestApplyUpdates_Increment(t *testing.T) {
	doc := map[string]any{"likeCount": float64(2)}

	require.NoError(t, ApplyUpdates(doc, []Update{Increment("likeCount", 1), Increment("likeCount", -3)}))
	assert.Equal(t, float64(0), doc["likeCount"])

	require.NoError(t, ApplyUpdates(doc, []Update{Increment("views", 5)}))
	assert.Equal(t, float64(5), doc["views"])
}

func TestApplyUpdates_SetNestedAndStruct(t *testing.T) {
	doc := map[string]any{}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, ApplyUpdates(doc, []Update{
		Set("title", "hello"),
		Set("meta.editor", "u1"),
		ArrayUnion("comments", testComment{Body: "nice", CreatedAt: ts}),
	}))

	assert.Equal(t, "hello", doc["title"])
	assert.Equal(t, map[string]any{"editor": "u1"}, doc["meta"])
	assert.Equal(t, []any{map[string]any{"body": "nice", "createdAt": "2024-05-01T12:00:00Z"}}, doc["comments"])

	// Identical struct values are treated as the same array element
	require.NoError(t, ApplyUpdates(doc, []Update{ArrayUnion("comments", testComment{Body: "nice", CreatedAt: ts})}))
	assert.Len(t, doc["comments"], 1)
}

func TestApplyUpdates_EmptyPath(t *testing.T) {
	err := ApplyUpdates(map[string]any{}, []Update{Set("", 1)})
	assert.Error(t, err)
}

func TestTimeField(t *testing.T) {
	obj, err := EncodeJSON(testComment{CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)})
	require.NoError(t, err)

	got, ok := TimeField(obj, "createdAt")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)))

	_, ok = TimeField(obj, "body")
	assert.False(t, ok)
	_, ok = TimeField(obj, "missing.path")
	assert.False(t, ok)
}

func TestWrites_SkipsEmptyUpdate(t *testing.T) {
	var w Writes
	w.Update("posts", "p1")
	w.Delete("posts", "p2")

	assert.Equal(t, 1, w.Len())
	assert.Equal(t, WriteDelete, w.Queued()[0].Kind)
}
