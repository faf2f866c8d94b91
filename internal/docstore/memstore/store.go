// Package memstore is an in-process docstore backend used for tests and local development.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"FoodieFriends/internal/docstore"
)

// Store keeps every document as encoded JSON so readers never share
// memory with the stored state
type Store struct {
	collections map[string]map[string][]byte
	mu          sync.RWMutex
}

// New creates an empty store
func New() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return docstore.NewDocument(id, docstore.DecodeJSON(raw)), nil
}

func (s *Store) GetMany(ctx context.Context, collection string, ids []string) (map[string]*docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*docstore.Document, len(ids))
	docs := s.collections[collection]
	for _, id := range ids {
		if raw, ok := docs[id]; ok {
			result[id] = docstore.NewDocument(id, docstore.DecodeJSON(raw))
		}
	}
	return result, nil
}

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.OrderBy == "" {
		return nil, fmt.Errorf("query on %s: OrderBy is required", q.Collection)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type row struct {
		doc *docstore.Document
		key int64
	}
	var rows []row
	for id, raw := range s.collections[q.Collection] {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("corrupt document %s/%s: %w", q.Collection, id, err)
		}
		ts, ok := docstore.TimeField(obj, q.OrderBy)
		if !ok {
			continue
		}
		if q.After != nil {
			if q.Descending && !ts.Before(*q.After) {
				continue
			}
			if !q.Descending && !ts.After(*q.After) {
				continue
			}
		}
		rows = append(rows, row{key: ts.UnixNano(), doc: docstore.NewDocument(id, docstore.DecodeJSON(raw))})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].key == rows[j].key {
			return rows[i].doc.ID < rows[j].doc.ID
		}
		if q.Descending {
			return rows[i].key > rows[j].key
		}
		return rows[i].key < rows[j].key
	})

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	out := make([]*docstore.Document, len(rows))
	for i, r := range rows {
		out[i] = r.doc
	}
	return out, nil
}

func (s *Store) Batch() docstore.Batch {
	return &batch{store: s}
}

func (s *Store) Close() error {
	return nil
}

// Count reports the number of documents in a collection
func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

type batch struct {
	store *Store
	docstore.Writes
	committed bool
}

type docKey struct {
	collection string
	id         string
}

// Commit stages every write against a private view and swaps the results in
// only when all of them succeed
func (b *batch) Commit(ctx context.Context) error {
	if b.committed {
		return fmt.Errorf("batch already committed")
	}
	b.committed = true
	if err := ctx.Err(); err != nil {
		return err
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[docKey][]byte)
	current := func(k docKey) ([]byte, bool) {
		if raw, ok := staged[k]; ok {
			return raw, raw != nil
		}
		raw, ok := s.collections[k.collection][k.id]
		return raw, ok
	}

	for _, w := range b.Queued() {
		k := docKey{collection: w.Collection, id: w.ID}
		switch w.Kind {
		case docstore.WriteCreate, docstore.WriteSet:
			if _, exists := current(k); exists && w.Kind == docstore.WriteCreate {
				return fmt.Errorf("create %s/%s: %w", w.Collection, w.ID, docstore.ErrAlreadyExists)
			}
			obj, err := docstore.EncodeJSON(w.Data)
			if err != nil {
				return err
			}
			raw, err := json.Marshal(obj)
			if err != nil {
				return err
			}
			staged[k] = raw

		case docstore.WriteUpdate:
			raw, exists := current(k)
			if !exists {
				return fmt.Errorf("update %s/%s: %w", w.Collection, w.ID, docstore.ErrNotFound)
			}
			var obj map[string]any
			if err := json.Unmarshal(raw, &obj); err != nil {
				return fmt.Errorf("corrupt document %s/%s: %w", w.Collection, w.ID, err)
			}
			if err := docstore.ApplyUpdates(obj, w.Updates); err != nil {
				return fmt.Errorf("update %s/%s: %w", w.Collection, w.ID, err)
			}
			updated, err := json.Marshal(obj)
			if err != nil {
				return err
			}
			staged[k] = updated

		case docstore.WriteDelete:
			staged[k] = nil
		}
	}

	for k, raw := range staged {
		if raw == nil {
			delete(s.collections[k.collection], k.id)
			continue
		}
		docs, ok := s.collections[k.collection]
		if !ok {
			docs = make(map[string][]byte)
			s.collections[k.collection] = docs
		}
		docs[k.id] = raw
	}
	return nil
}
