// Package main is the entry point for the WowBlog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wowblog/internal/cache"
	"wowblog/internal/config"
	"wowblog/internal/database"
	"wowblog/internal/handlers"
	"wowblog/internal/logging"
	"wowblog/internal/router"
	"wowblog/internal/storage"
	"wowblog/internal/store"
	"wowblog/internal/upload"
)

func main() {
	// Load configuration from environment variables (and .env if present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	logCloser := logging.Setup(cfg)
	defer logCloser.Close()

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the entity cache (optional).
	var entityCache *cache.EntityCache
	if addr := cfg.ValkeyAddr(); addr != "" {
		valkeyClient, err := cache.ConnectValkey(addr, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		entityCache = cache.NewEntityCache(valkeyClient, cfg.CacheTTL)
	} else {
		slog.Warn("valkey not configured, entity cache disabled")
	}

	// Connect to S3-compatible object storage (optional, mirrors uploads).
	var mirror upload.Mirror
	if cfg.S3Enabled() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			mirror = storageClient
			slog.Info("s3 mirror enabled", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
		}
	}

	// Local upload tree, one directory per bucket.
	uploads := upload.New(cfg.UploadDir, mirror)
	if err := uploads.EnsureBuckets(); err != nil {
		slog.Error("failed to create upload directories", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	bannerStore := store.NewBannerStore(db)

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Health:     handlers.NewHealth(db, categoryStore, postStore),
		Categories: handlers.NewCategories(categoryStore, uploads, entityCache, cfg.UploadMaxBytes),
		Posts:      handlers.NewPosts(postStore, uploads, entityCache, cfg.UploadMaxBytes),
		Banner:     handlers.NewBanner(bannerStore, entityCache),
		Uploads:    handlers.NewUploads(uploads, cfg.UploadMaxBytes),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(uploads.Root(), h)

	// Create the HTTP server with sensible timeouts. ReadTimeout has to
	// cover a full upload on a slow link.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
