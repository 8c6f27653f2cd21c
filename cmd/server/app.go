package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/platform/postgres"
	"github.com/taskboard/taskboard-api/internal/platform/rediscache"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core resources
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore store.TaskStore
	taskCache store.TaskCache

	// Service interfaces
	taskService service.TaskService

	// cacheCloser releases the redis connection at shutdown
	cacheCloser interface{ Close() error }
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application initialization.
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

	// Initialize the task store
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// Initialize the task cache; the connection is acquired here, once per
	// process, and released in cleanup.
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	taskCache, err := rediscache.NewRedisTaskCache(ctx, cfg.Cache.URL, ttl, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task cache: %w", err)
	}
	app.taskCache = taskCache
	app.cacheCloser = taskCache
	logger.Info("Task cache initialized", "ttl", ttl)

	// Initialize the task service
	app.taskService, err = service.NewTaskService(app.taskStore, app.taskCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cacheCloser != nil {
		if err := app.cacheCloser.Close(); err != nil {
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
