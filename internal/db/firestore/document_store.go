// Package firestore stores documents in Cloud Firestore, the hosted document
// database the service was first deployed on.
package firestore

import (
	"FoodieFriends/internal/docstore"
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type documentStore struct {
	client *firestore.Client
}

// NewDocumentStore connects to the Firestore database of projectID.
// Credentials come from the environment (GOOGLE_APPLICATION_CREDENTIALS or the
// metadata server); FIRESTORE_EMULATOR_HOST is honored by the client.
func NewDocumentStore(ctx context.Context, projectID string) (docstore.Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &documentStore{client: client}, nil
}

func (s *documentStore) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return docstore.NewDocument(id, snap.DataTo), nil
}

func (s *documentStore) GetMany(ctx context.Context, collection string, ids []string) (map[string]*docstore.Document, error) {
	result := make(map[string]*docstore.Document, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = s.client.Collection(collection).Doc(id)
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s documents: %w", collection, err)
	}
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		result[snap.Ref.ID] = docstore.NewDocument(snap.Ref.ID, snap.DataTo)
	}
	return result, nil
}

func (s *documentStore) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	if q.OrderBy == "" {
		return nil, fmt.Errorf("query on %s: OrderBy is required", q.Collection)
	}

	dir := firestore.Asc
	if q.Descending {
		dir = firestore.Desc
	}
	query := s.client.Collection(q.Collection).OrderBy(q.OrderBy, dir)
	if q.After != nil {
		query = query.StartAfter(*q.After)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []*docstore.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
		}
		docs = append(docs, docstore.NewDocument(snap.Ref.ID, snap.DataTo))
	}
	return docs, nil
}

func (s *documentStore) Batch() docstore.Batch {
	return &documentBatch{client: s.client}
}

func (s *documentStore) Close() error {
	return s.client.Close()
}

type documentBatch struct {
	client *firestore.Client
	docstore.Writes
}

// Commit runs the writes in one Firestore transaction. The transaction has no
// reads, so a retry on contention simply replays the writes.
func (b *documentBatch) Commit(ctx context.Context) error {
	if b.Len() == 0 {
		return nil
	}

	err := b.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, w := range b.Queued() {
			ref := b.client.Collection(w.Collection).Doc(w.ID)
			var err error
			switch w.Kind {
			case docstore.WriteCreate:
				err = tx.Create(ref, w.Data)
			case docstore.WriteSet:
				err = tx.Set(ref, w.Data)
			case docstore.WriteUpdate:
				err = tx.Update(ref, toFirestoreUpdates(w.Updates))
			case docstore.WriteDelete:
				err = tx.Delete(ref)
			}
			if err != nil {
				return fmt.Errorf("%s/%s: %w", w.Collection, w.ID, err)
			}
		}
		return nil
	})

	switch status.Code(err) {
	case codes.OK:
		return nil
	case codes.NotFound:
		return fmt.Errorf("batch commit: %w", docstore.ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("batch commit: %w", docstore.ErrAlreadyExists)
	default:
		return fmt.Errorf("failed to commit batch: %w", err)
	}
}

func toFirestoreUpdates(updates []docstore.Update) []firestore.Update {
	out := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		var value any
		switch u.Op {
		case docstore.OpSet:
			value = u.Value
		case docstore.OpArrayUnion:
			value = firestore.ArrayUnion(u.Values...)
		case docstore.OpArrayRemove:
			value = firestore.ArrayRemove(u.Values...)
		case docstore.OpIncrement:
			value = firestore.Increment(u.Delta)
		}
		out = append(out, firestore.Update{Path: u.Path, Value: value})
	}
	return out
}
