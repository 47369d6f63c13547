package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vocabloom/vocabloom-api/internal/config"
	"github.com/vocabloom/vocabloom-api/internal/domain/srs"
	"github.com/vocabloom/vocabloom-api/internal/platform/dictionary"
	"github.com/vocabloom/vocabloom-api/internal/platform/images"
	"github.com/vocabloom/vocabloom-api/internal/platform/postgres"
	"github.com/vocabloom/vocabloom-api/internal/platform/rediscache"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/service"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB
	cache  *rediscache.Cache

	// Stores (using interfaces for proper abstraction)
	wordStore     store.WordStore
	userWordStore store.UserWordStore
	progressStore store.ProgressStore

	// Service interfaces
	srsService      srs.Service
	wordService     service.WordService
	userWordService service.UserWordService
	quizService     service.QuizService
	progressService service.ProgressService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Optional response cache. A nil cache disables caching; the
	// enrichment clients degrade gracefully without it.
	app.cache = rediscache.New(cfg.Redis.Addr, logger)
	if app.cache != nil {
		logger.Info("Redis cache initialized", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("Response caching disabled")
	}

	// Initialize stores
	app.wordStore = postgres.NewPostgresWordStore(db, logger)
	app.userWordStore = postgres.NewPostgresUserWordStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)

	// Initialize enrichment clients
	dictionaryClient := dictionary.NewClient(app.cache, logger)
	imageClient := images.NewClient(images.Config{
		UnsplashAccessKey: cfg.Enrichment.UnsplashAccessKey,
		PexelsAPIKey:      cfg.Enrichment.PexelsAPIKey,
	}, app.cache, logger)

	// Initialize the review scheduler
	app.srsService = srs.NewDefaultService()

	var err error

	// Initialize word service
	app.wordService, err = service.NewWordService(app.wordStore, dictionaryClient, imageClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create word service: %w", err)
	}

	// Initialize user word service
	app.userWordService, err = service.NewUserWordService(app.userWordStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user word service: %w", err)
	}

	// Initialize quiz service
	generator := quiz.NewGenerator(app.wordStore, logger)
	app.quizService, err = service.NewQuizService(
		db,
		app.userWordStore,
		app.srsService,
		generator,
		nil,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz service: %w", err)
	}

	// Initialize progress service
	app.progressService, err = service.NewProgressService(db, app.progressStore, app.userWordStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("Error closing cache connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
