// Package service contains the application's business logic. TaskService
// mediates between callers and the task store/cache pair, enforcing the
// read-through and invalidate-on-write contract around the task list.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// TaskListResult is a task list snapshot tagged with its provenance:
// whether it was served from the cache or recomputed from the database.
type TaskListResult struct {
	Source domain.ListSource
	Tasks  []domain.Task
}

// TaskService provides task-related operations.
type TaskService interface {
	// ListTasks returns the current task list ordered newest-first,
	// preferring the cached snapshot and falling back to the store.
	ListTasks(ctx context.Context) (*TaskListResult, error)

	// CreateTask validates the input, persists a new task, and
	// invalidates the cached task list so no stale list survives a
	// successful create.
	CreateTask(ctx context.Context, title, description string) (*domain.Task, error)
}

// Common sentinel errors for TaskService
var (
	// ErrValidation indicates the caller's input was rejected before any
	// store or cache access took place.
	ErrValidation = errors.New("validation failed")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "list_tasks", "create_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	taskCache store.TaskCache
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	taskCache store.TaskCache,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if taskCache == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskCache cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		taskCache: taskCache,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// ListTasks serves the task list read-through: a cache hit is returned
// as-is; a miss queries the store and repopulates the cache.
//
// Cache errors are treated the same as a miss (fail-open to the store):
// the cache is strictly a performance layer and must never fail a read
// that the store could serve. Errors on the populate step are logged
// and swallowed for the same reason.
func (s *taskServiceImpl) ListTasks(ctx context.Context) (*TaskListResult, error) {
	tasks, err := s.taskCache.GetTaskList(ctx)
	if err == nil {
		return &TaskListResult{
			Source: domain.ListSourceCache,
			Tasks:  tasks,
		}, nil
	}

	if !errors.Is(err, store.ErrCacheMiss) {
		s.logger.Warn("task list cache read failed, falling back to store",
			"error", err)
	}

	tasks, err = s.taskStore.ListTasks(ctx)
	if err != nil {
		s.logger.Error("failed to list tasks from store",
			"error", err)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks from store", err)
	}

	if err := s.taskCache.SetTaskList(ctx, tasks); err != nil {
		// The next read recomputes from the store, so a failed populate
		// costs latency, not correctness.
		s.logger.Warn("failed to repopulate task list cache",
			"error", err,
			"count", len(tasks))
	}

	return &TaskListResult{
		Source: domain.ListSourceDatabase,
		Tasks:  tasks,
	}, nil
}

// CreateTask persists a new task and unconditionally invalidates the
// cached task list afterwards, forcing the next ListTasks call to
// recompute from the store.
//
// Validation failures occur before any store or cache access. The cache
// is not touched when the store write fails. A failed invalidation is a
// latent-staleness risk bounded by the entry TTL; the create itself
// still succeeds because the store is the source of truth.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	title, description string,
) (*domain.Task, error) {
	draft, err := domain.NewTaskDraft(title, description)
	if err != nil {
		s.logger.Debug("task creation rejected by validation",
			"error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	task, err := s.taskStore.CreateTask(ctx, draft)
	if err != nil {
		s.logger.Error("failed to create task in store",
			"error", err,
			"title", draft.Title)
		return nil, NewTaskServiceError("create_task", "failed to create task in store", err)
	}

	if err := s.taskCache.InvalidateTaskList(ctx); err != nil {
		s.logger.Warn("failed to invalidate task list cache after create",
			"error", err,
			"task_id", task.ID)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"title", task.Title)

	return task, nil
}
