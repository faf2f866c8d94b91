// Package bolt keeps documents in a single bbolt file, one bucket per
// collection, for single-node deployments without a database server.
package bolt

import (
	"FoodieFriends/internal/docstore"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

type documentStore struct {
	db *bolt.DB
}

// Open opens (or creates) the database file at path
func Open(path string) (docstore.Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", path, err)
	}
	return &documentStore{db: db}, nil
}

func (s *documentStore) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(id)); v != nil {
			raw = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	if raw == nil {
		return nil, docstore.ErrNotFound
	}
	return docstore.NewDocument(id, docstore.DecodeJSON(raw)), nil
}

func (s *documentStore) GetMany(ctx context.Context, collection string, ids []string) (map[string]*docstore.Document, error) {
	result := make(map[string]*docstore.Document, len(ids))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		for _, id := range ids {
			if v := b.Get([]byte(id)); v != nil {
				result[id] = docstore.NewDocument(id, docstore.DecodeJSON(bytes.Clone(v)))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s documents: %w", collection, err)
	}
	return result, nil
}

// Query scans the collection bucket. Buckets are keyed by id, so ordering by
// a timestamp field needs a full scan.
func (s *documentStore) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	if q.OrderBy == "" {
		return nil, fmt.Errorf("query on %s: OrderBy is required", q.Collection)
	}

	type row struct {
		ts  time.Time
		doc *docstore.Document
	}
	var rows []row
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(q.Collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var obj map[string]any
			if err := json.Unmarshal(v, &obj); err != nil {
				return fmt.Errorf("corrupt document %s/%s: %w", q.Collection, k, err)
			}
			ts, ok := docstore.TimeField(obj, q.OrderBy)
			if !ok {
				return nil
			}
			if q.After != nil && ((q.Descending && !ts.Before(*q.After)) || (!q.Descending && !ts.After(*q.After))) {
				return nil
			}
			id := string(k)
			rows = append(rows, row{ts: ts, doc: docstore.NewDocument(id, docstore.DecodeJSON(bytes.Clone(v)))})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ts.Equal(rows[j].ts) {
			return rows[i].doc.ID < rows[j].doc.ID
		}
		if q.Descending {
			return rows[i].ts.After(rows[j].ts)
		}
		return rows[i].ts.Before(rows[j].ts)
	})
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	docs := make([]*docstore.Document, len(rows))
	for i, r := range rows {
		docs[i] = r.doc
	}
	return docs, nil
}

func (s *documentStore) Batch() docstore.Batch {
	return &documentBatch{db: s.db}
}

func (s *documentStore) Close() error {
	return s.db.Close()
}

type documentBatch struct {
	db *bolt.DB
	docstore.Writes
}

// Commit applies the writes in one read-write transaction; any error rolls
// the whole batch back
func (b *documentBatch) Commit(ctx context.Context) error {
	if b.Len() == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		for _, w := range b.Queued() {
			if err := applyWrite(tx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyWrite(tx *bolt.Tx, w docstore.Write) error {
	bucket, err := tx.CreateBucketIfNotExists([]byte(w.Collection))
	if err != nil {
		return fmt.Errorf("failed to open bucket %s: %w", w.Collection, err)
	}
	key := []byte(w.ID)

	switch w.Kind {
	case docstore.WriteCreate, docstore.WriteSet:
		if w.Kind == docstore.WriteCreate && bucket.Get(key) != nil {
			return fmt.Errorf("create %s/%s: %w", w.Collection, w.ID, docstore.ErrAlreadyExists)
		}
		obj, err := docstore.EncodeJSON(w.Data)
		if err != nil {
			return err
		}
		return put(bucket, key, obj)

	case docstore.WriteUpdate:
		current := bucket.Get(key)
		if current == nil {
			return fmt.Errorf("update %s/%s: %w", w.Collection, w.ID, docstore.ErrNotFound)
		}
		var obj map[string]any
		if err := json.Unmarshal(current, &obj); err != nil {
			return fmt.Errorf("corrupt document %s/%s: %w", w.Collection, w.ID, err)
		}
		if err := docstore.ApplyUpdates(obj, w.Updates); err != nil {
			return fmt.Errorf("update %s/%s: %w", w.Collection, w.ID, err)
		}
		return put(bucket, key, obj)

	case docstore.WriteDelete:
		return bucket.Delete(key)
	}
	return nil
}

func put(bucket *bolt.Bucket, key []byte, obj map[string]any) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return bucket.Put(key, raw)
}
