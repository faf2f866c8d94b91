package postgres

import (
	"FoodieFriends/internal/db/migrations"
	"FoodieFriends/internal/docstore"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// uniqueViolation is the Postgres SQLSTATE for duplicate keys
const uniqueViolation = "23505"

// Migrate applies the embedded migrations
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type documentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a document store over the documents table.
// Each document is one JSONB row keyed by (collection, id).
func NewDocumentStore(db *sql.DB) docstore.Store {
	return &documentStore{db: db}
}

func (s *documentStore) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return docstore.NewDocument(id, docstore.DecodeJSON(raw)), nil
}

func (s *documentStore) GetMany(ctx context.Context, collection string, ids []string) (map[string]*docstore.Document, error) {
	result := make(map[string]*docstore.Document, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 AND id = ANY($2)`,
		collection, pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s documents: %w", collection, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Error("failed to close rows", "collection", collection, "error", closeErr)
		}
	}()

	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", collection, err)
		}
		result[id] = docstore.NewDocument(id, docstore.DecodeJSON(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s documents: %w", collection, err)
	}
	return result, nil
}

func (s *documentStore) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	if q.OrderBy == "" {
		return nil, fmt.Errorf("query on %s: OrderBy is required", q.Collection)
	}

	// Timestamps are stored as RFC 3339 strings, which Postgres casts directly
	query := `
		SELECT id, data FROM documents
		WHERE collection = $1
		  AND (data->>$2::text) IS NOT NULL
		  AND ($3::timestamptz IS NULL OR (data->>$2::text)::timestamptz > $3)
		ORDER BY (data->>$2::text)::timestamptz ASC, id ASC
		LIMIT NULLIF($4::int, 0)`
	if q.Descending {
		query = `
		SELECT id, data FROM documents
		WHERE collection = $1
		  AND (data->>$2::text) IS NOT NULL
		  AND ($3::timestamptz IS NULL OR (data->>$2::text)::timestamptz < $3)
		ORDER BY (data->>$2::text)::timestamptz DESC, id DESC
		LIMIT NULLIF($4::int, 0)`
	}

	rows, err := s.db.QueryContext(ctx, query, q.Collection, q.OrderBy, q.After, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Error("failed to close rows", "collection", q.Collection, "error", closeErr)
		}
	}()

	var docs []*docstore.Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", q.Collection, err)
		}
		docs = append(docs, docstore.NewDocument(id, docstore.DecodeJSON(raw)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s documents: %w", q.Collection, err)
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
	db *sql.DB
	docstore.Writes
}

// Commit applies the queued writes in one transaction
func (b *documentBatch) Commit(ctx context.Context) error {
	if b.Len() == 0 {
		return nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	for _, w := range b.Queued() {
		if err := applyWrite(ctx, tx, w); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func applyWrite(ctx context.Context, tx *sql.Tx, w docstore.Write) error {
	switch w.Kind {
	case docstore.WriteCreate:
		raw, err := encode(w.Data)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`,
			w.Collection, w.ID, raw,
		)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("create %s/%s: %w", w.Collection, w.ID, docstore.ErrAlreadyExists)
		}
		if err != nil {
			return fmt.Errorf("failed to create %s/%s: %w", w.Collection, w.ID, err)
		}

	case docstore.WriteSet:
		raw, err := encode(w.Data)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
			ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
			w.Collection, w.ID, raw,
		); err != nil {
			return fmt.Errorf("failed to set %s/%s: %w", w.Collection, w.ID, err)
		}

	case docstore.WriteUpdate:
		var raw []byte
		err := tx.QueryRowContext(ctx,
			`SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
			w.Collection, w.ID,
		).Scan(&raw)
		if err == sql.ErrNoRows {
			return fmt.Errorf("update %s/%s: %w", w.Collection, w.ID, docstore.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock %s/%s: %w", w.Collection, w.ID, err)
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
			return fmt.Errorf("failed to encode %s/%s: %w", w.Collection, w.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET data = $3, updated_at = NOW() WHERE collection = $1 AND id = $2`,
			w.Collection, w.ID, string(updated),
		); err != nil {
			return fmt.Errorf("failed to update %s/%s: %w", w.Collection, w.ID, err)
		}

	case docstore.WriteDelete:
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = $1 AND id = $2`,
			w.Collection, w.ID,
		); err != nil {
			return fmt.Errorf("failed to delete %s/%s: %w", w.Collection, w.ID, err)
		}
	}
	return nil
}

// encode returns the JSON text of data. lib/pq sends []byte as bytea, so
// JSONB parameters are passed as strings.
func encode(data any) (string, error) {
	obj, err := docstore.EncodeJSON(data)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
