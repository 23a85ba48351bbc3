// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command inkwell runs the Inkwell CMS REST API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/api"
	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if cfg.IsDev() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Redis is optional: without it the API serves every read from
	// PostgreSQL directly.
	var responseCache *cache.ResponseCache
	if redisClient, err := cache.Connect(cfg.RedisAddr(), cfg.RedisPassword); err != nil {
		slog.Warn("redis unavailable, response caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		responseCache = cache.NewResponseCache(redisClient, cache.DefaultTTL)
	}

	files, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey,
		cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return err
	}
	if files == nil {
		slog.Warn("object storage not configured, media endpoints disabled")
	} else {
		files.EnsureBucket(context.Background())
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiry)

	handlers := api.New(
		cfg,
		store.NewUserStore(db),
		store.NewArticleStore(db),
		store.NewCategoryStore(db),
		store.NewCommentStore(db),
		store.NewMediaStore(db),
		tokens,
		files,
		responseCache,
	)

	// 10 attempts per minute per IP on the credential endpoints.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.Routes(loginLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr(), "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
