package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"FoodieFriends/internal/api/handlers/meta"
	"FoodieFriends/internal/api/middleware"
	"FoodieFriends/internal/api/routes"
	"FoodieFriends/internal/auth"
	"FoodieFriends/internal/config"
	"FoodieFriends/internal/core/actor"
	"FoodieFriends/internal/core/engagement"
	"FoodieFriends/internal/core/follows"
	"FoodieFriends/internal/core/posts"
	"FoodieFriends/internal/core/users"
	"FoodieFriends/internal/db"
	"FoodieFriends/internal/metrics"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open document store:", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close document store", "error", err)
		}
	}()
	store = metrics.InstrumentStore(store)

	provider, err := auth.NewProvider(store, auth.Config{
		Secret:   []byte(cfg.TokenSecret),
		TokenTTL: cfg.TokenTTL,
	}, logger)
	if err != nil {
		log.Fatal("Failed to create identity provider:", err)
	}

	// Initialize repositories and services
	userRepo := users.NewRepository(store)
	postRepo := posts.NewRepository(store)
	postService := posts.NewPostService(store, postRepo, userRepo, cfg.PageSize, logger)
	userService := users.NewUserService(store, userRepo, provider, postService, logger)
	engagementService := engagement.NewEngagementService(store, postRepo, userRepo, logger)
	followService := follows.NewFollowService(store, userRepo, logger)
	actorService := actor.NewActorService(postRepo, userRepo, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware)
	}

	// Rate limiting per client IP; credential endpoints get a fifth of the budget
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()
	credentialLimiter := middleware.NewRateLimiter(max(cfg.RateLimitRequests/5, 1), cfg.RateLimitWindow)
	defer credentialLimiter.Stop()
	r.Use(rateLimiter.Middleware)

	authMiddleware := middleware.NewAuthMiddleware(provider)

	routes.RegisterAccountRoutes(r, userService, authMiddleware, credentialLimiter)
	routes.RegisterPostRoutes(r, postService, authMiddleware)
	routes.RegisterEngagementRoutes(r, engagementService, authMiddleware)
	routes.RegisterActorRoutes(r, actorService, followService, authMiddleware)

	var pinger meta.Pinger
	if conn != nil {
		pinger = conn
	}
	routes.RegisterMetaRoutes(r, meta.NewHandler(meta.About{
		Name:        "FoodieFriends",
		Description: "A social network for sharing food recommendations",
		Version:     version,
	}, pinger), cfg.MetricsEnabled)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("FoodieFriends server starting", "port", cfg.Port, "store", cfg.StoreBackend, "dev", cfg.IsDevEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
