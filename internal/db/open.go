// Package db opens the document store backend selected by configuration.
package db

import (
	"FoodieFriends/internal/config"
	boltStore "FoodieFriends/internal/db/bolt"
	firestoreStore "FoodieFriends/internal/db/firestore"
	postgresStore "FoodieFriends/internal/db/postgres"
	"FoodieFriends/internal/docstore"
	"FoodieFriends/internal/docstore/memstore"
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// Open opens the configured backend. The *sql.DB is returned for health
// checks when the backend is Postgres and is nil otherwise. Closing the
// store closes the connection.
func Open(ctx context.Context, cfg *config.Config) (docstore.Store, *sql.DB, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		log.Println("Connected to database")

		if err := postgresStore.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("Migrations completed successfully")
		return postgresStore.NewDocumentStore(db), db, nil

	case config.BackendFirestore:
		store, err := firestoreStore.NewDocumentStore(ctx, cfg.FirestoreProjectID)
		return store, nil, err

	case config.BackendBolt:
		store, err := boltStore.Open(cfg.BoltPath)
		return store, nil, err

	case config.BackendMemory:
		log.Println("WARNING: using the in-memory store; data is lost on restart")
		return memstore.New(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
