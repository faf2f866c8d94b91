package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned when Create targets an existing document
	ErrAlreadyExists = errors.New("document already exists")
)

// Store is a schemaless collection-of-documents store.
// Reads go straight to the backend; every write goes through a Batch so that
// related mutations on several documents are applied together or not at all.
type Store interface {
	// Get returns the document or ErrNotFound
	Get(ctx context.Context, collection, id string) (*Document, error)

	// GetMany returns the documents that exist, keyed by id.
	// Missing ids are not included in the result map (no error for missing documents).
	GetMany(ctx context.Context, collection string, ids []string) (map[string]*Document, error)

	// Query returns documents ordered by a timestamp field.
	// Documents without the field are excluded.
	Query(ctx context.Context, q Query) ([]*Document, error)

	// Batch starts a new group of writes
	Batch() Batch

	Close() error
}

// Batch collects writes and commits them atomically.
// A Batch must not be reused after Commit.
type Batch interface {
	// Create writes a new document; the commit fails with ErrAlreadyExists if it exists
	Create(collection, id string, data any)

	// Set writes a document, replacing any existing content
	Set(collection, id string, data any)

	// Update applies field operators; the commit fails with ErrNotFound if the document is absent
	Update(collection, id string, updates ...Update)

	// Delete removes a document; deleting an absent document is not an error
	Delete(collection, id string)

	// Len reports the number of queued writes
	Len() int

	Commit(ctx context.Context) error
}

// Query selects documents of one collection in timestamp order
type Query struct {
	// After, when set, is a strict keyset cursor on OrderBy in the query direction
	After      *time.Time
	Collection string
	OrderBy    string
	Limit      int
	Descending bool
}

// Document is a read snapshot
type Document struct {
	decode func(dst any) error
	ID     string
}

// NewDocument wraps a backend snapshot. decode populates dst from the stored data.
func NewDocument(id string, decode func(dst any) error) *Document {
	return &Document{ID: id, decode: decode}
}

// DataTo decodes the document into dst, which must be a pointer to a struct or map
func (d *Document) DataTo(dst any) error {
	return d.decode(dst)
}
