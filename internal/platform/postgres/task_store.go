// Package postgres provides PostgreSQL implementations of the store
// interfaces, using the pgx driver through database/sql.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/store"
)

// PostgreSQL error codes
const pgCheckViolationCode = "23514"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// ListTasks implements store.TaskStore.ListTasks.
// Results are ordered newest-first by created_at; tasks sharing a
// creation timestamp keep insertion order via the id tie-break.
func (s *PostgresTaskStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, completed, created_at, updated_at
		FROM tasks
		ORDER BY created_at DESC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Completed,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	log.Debug("tasks listed from database", slog.Int("count", len(tasks)))
	return tasks, nil
}

// CreateTask implements store.TaskStore.CreateTask.
// The database assigns id, the completed default, and both timestamps;
// the updated_at trigger keeps updated_at >= created_at on later writes.
// Returns store.ErrInvalidEntity if the draft violates a table constraint.
func (s *PostgresTaskStore) CreateTask(
	ctx context.Context,
	draft *domain.TaskDraft,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := draft.Validate(); err != nil {
		log.Warn("task draft validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		INSERT INTO tasks (title, description)
		VALUES ($1, $2)
		RETURNING id, title, description, completed, created_at, updated_at
	`

	var t domain.Task
	err := s.db.QueryRowContext(ctx, query, draft.Title, draft.Description).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolationCode {
			log.Warn("check constraint violation during task creation",
				slog.String("error", err.Error()),
				slog.String("title", draft.Title))
			return nil, fmt.Errorf("%w: %s", store.ErrInvalidEntity, pgErr.ConstraintName)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("title", draft.Title))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", t.ID),
		slog.String("title", t.Title))
	return &t, nil
}
