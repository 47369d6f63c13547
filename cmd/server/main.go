// Package main implements the entry point for the Vocabloom API server,
// which manages a learner's vocabulary list and schedules reviews with
// spaced repetition.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/vocabloom/vocabloom-api/internal/config"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
)

// main initializes configuration, logging, the database, and all
// application dependencies, then starts the HTTP server.
func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to set up database", "error", err)
		log.Fatalf("Failed to set up database: %v", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		appLogger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		appLogger.Error("Failed to build application", "error", err)
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("Server exited with error", "error", err)
		log.Fatalf("Server exited with error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	slog.Debug("Database configuration", "url_present", cfg.Database.URL != "")
	slog.Debug("Cache configuration", "redis_enabled", cfg.Redis.Addr != "")
	slog.Debug("Enrichment configuration",
		"unsplash_key_present", cfg.Enrichment.UnsplashAccessKey != "",
		"pexels_key_present", cfg.Enrichment.PexelsAPIKey != "")

	return cfg, appLogger, nil
}
