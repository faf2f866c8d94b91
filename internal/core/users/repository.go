package users

import (
	"FoodieFriends/internal/docstore"
	"FoodieFriends/internal/metrics"
	"context"
	"errors"
	"fmt"
)

type repository struct {
	store docstore.Store
}

// NewRepository creates a user repository over the document store
func NewRepository(store docstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Get(ctx context.Context, uid string) (*User, error) {
	if uid == "" {
		return nil, ErrUserNotFound
	}
	doc, err := r.store.Get(ctx, Collection, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	var user User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", uid, err)
	}
	if user.UID == "" {
		user.UID = doc.ID
	}
	return &user, nil
}

func (r *repository) GetMany(ctx context.Context, uids []string) (map[string]*User, error) {
	docs, err := r.store.GetMany(ctx, Collection, uids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	result := make(map[string]*User, len(docs))
	for id, doc := range docs {
		var user User
		if err := doc.DataTo(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
		}
		if user.UID == "" {
			user.UID = id
		}
		result[id] = &user
	}
	return result, nil
}

func (r *repository) Create(b docstore.Batch, user *User) {
	b.Create(Collection, user.UID, user)
}

func (r *repository) Delete(b docstore.Batch, uid string) {
	b.Delete(Collection, uid)
}

func (r *repository) AddToSet(b docstore.Batch, uid string, field SetField, ids ...string) {
	if len(ids) == 0 {
		return
	}
	b.Update(Collection, uid, docstore.ArrayUnion(string(field), docstore.Strings(ids...)...))
}

func (r *repository) RemoveFromSet(b docstore.Batch, uid string, field SetField, ids ...string) {
	if len(ids) == 0 {
		return
	}
	b.Update(Collection, uid, docstore.ArrayRemove(string(field), docstore.Strings(ids...)...))
}

func (r *repository) SetFirstName(b docstore.Batch, uid, firstName string) {
	b.Update(Collection, uid, docstore.Set("firstName", firstName))
}

func (r *repository) PruneReferences(ctx context.Context, uid string, field SetField, stale []string) error {
	if len(stale) == 0 {
		return nil
	}
	b := r.store.Batch()
	r.RemoveFromSet(b, uid, field, stale...)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("failed to prune %s of user %s: %w", field, uid, err)
	}
	metrics.PrunedReferences(string(field), len(stale))
	return nil
}
