package store

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// The store is the source of truth for tasks; it assigns IDs and
// timestamps on insert.
type TaskStore interface {
	// ListTasks returns every task ordered by creation time, newest
	// first. Tasks created at the same instant are ordered by their
	// store-assigned ID, ascending.
	ListTasks(ctx context.Context) ([]domain.Task, error)

	// CreateTask inserts a new task built from the draft and returns it
	// with the store-assigned ID, Completed default, and timestamps.
	// Returns ErrInvalidEntity if the draft violates a store constraint.
	CreateTask(ctx context.Context, draft *domain.TaskDraft) (*domain.Task, error)
}

// TaskCache defines the interface for the single-key snapshot cache
// fronting TaskStore.ListTasks. The cached value is always a whole
// snapshot of the task list; there is no partial state.
type TaskCache interface {
	// GetTaskList returns the cached snapshot, or ErrCacheMiss if the
	// entry is absent or expired.
	GetTaskList(ctx context.Context) ([]domain.Task, error)

	// SetTaskList stores a full snapshot under the task-list key with
	// the cache's configured expiry.
	SetTaskList(ctx context.Context, tasks []domain.Task) error

	// InvalidateTaskList deletes the task-list entry so the next read
	// recomputes from the store. Deleting an absent entry is not an error.
	InvalidateTaskList(ctx context.Context) error
}
