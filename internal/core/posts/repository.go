package posts

import (
	"FoodieFriends/internal/docstore"
	"context"
	"errors"
	"fmt"
	"time"
)

type repository struct {
	store docstore.Store
}

// NewRepository creates a post repository over the document store
func NewRepository(store docstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Get(ctx context.Context, postID string) (*Post, error) {
	if postID == "" {
		return nil, ErrPostNotFound
	}
	doc, err := r.store.Get(ctx, Collection, postID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", postID, err)
	}
	return decode(doc)
}

func (r *repository) GetMany(ctx context.Context, postIDs []string) (map[string]*Post, error) {
	docs, err := r.store.GetMany(ctx, Collection, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	result := make(map[string]*Post, len(docs))
	for id, doc := range docs {
		post, err := decode(doc)
		if err != nil {
			return nil, err
		}
		result[id] = post
	}
	return result, nil
}

func (r *repository) ListByCreatedAt(ctx context.Context, before *time.Time, limit int) ([]*Post, error) {
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: Collection,
		OrderBy:    "createdAt",
		Descending: true,
		After:      before,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	result := make([]*Post, 0, len(docs))
	for _, doc := range docs {
		post, err := decode(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, nil
}

func (r *repository) Create(b docstore.Batch, post *Post) {
	b.Create(Collection, post.ID, post)
}

func (r *repository) Delete(b docstore.Batch, postID string) {
	b.Delete(Collection, postID)
}

func (r *repository) SetContent(b docstore.Batch, postID, title, body string, editedAt time.Time) {
	b.Update(Collection, postID,
		docstore.Set("title", title),
		docstore.Set("body", body),
		docstore.Set("editedAt", editedAt),
	)
}

func (r *repository) AddToSet(b docstore.Batch, postID string, field SetField, ids ...string) {
	if len(ids) == 0 {
		return
	}
	b.Update(Collection, postID, docstore.ArrayUnion(string(field), docstore.Strings(ids...)...))
}

func (r *repository) RemoveFromSet(b docstore.Batch, postID string, field SetField, ids ...string) {
	if len(ids) == 0 {
		return
	}
	b.Update(Collection, postID, docstore.ArrayRemove(string(field), docstore.Strings(ids...)...))
}

func (r *repository) AddLike(b docstore.Batch, postID, uid string) {
	b.Update(Collection, postID,
		docstore.ArrayUnion(string(FieldLikes), uid),
		docstore.Increment("likeCount", 1),
	)
}

func (r *repository) RemoveLike(b docstore.Batch, postID, uid string) {
	b.Update(Collection, postID,
		docstore.ArrayRemove(string(FieldLikes), uid),
		docstore.Increment("likeCount", -1),
	)
}

func (r *repository) SetLikeCount(b docstore.Batch, postID string, count int) {
	b.Update(Collection, postID, docstore.Set("likeCount", count))
}

func (r *repository) AppendComment(b docstore.Batch, postID string, comment Comment) {
	b.Update(Collection, postID, docstore.ArrayUnion("comments", comment))
}

func decode(doc *docstore.Document) (*Post, error) {
	var post Post
	if err := doc.DataTo(&post); err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", doc.ID, err)
	}
	post.ID = doc.ID
	post.inferKind()
	return &post, nil
}
