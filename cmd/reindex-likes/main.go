// cmd/reindex-likes/main.go
// Maintenance tool that rebuilds post like counters from the stored like sets
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"FoodieFriends/internal/config"
	"FoodieFriends/internal/core/posts"
	"FoodieFriends/internal/db"
)

func main() {
	pageSize := flag.Int("page-size", 200, "posts read per page")
	verbose := flag.Bool("v", false, "log every corrected post")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreBackend == config.BackendMemory {
		log.Fatalf("Nothing to reindex: STORE_BACKEND=%s keeps no data", cfg.StoreBackend)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Opening %s store...", cfg.StoreBackend)
	store, _, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close store: %v", err)
		}
	}()

	fixed, err := posts.RecountLikes(ctx, store, posts.NewRepository(store), *pageSize, logger)
	if err != nil {
		log.Printf("Reindex stopped after %d corrections: %v", fixed, err)
		stop()
		_ = store.Close()
		os.Exit(1)
	}

	log.Printf("✓ Reindexed like counts, %d posts corrected", fixed)
}
