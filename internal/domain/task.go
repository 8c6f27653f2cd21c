package domain

import (
	"errors"
	"strings"
	"time"
)

// ListSource indicates where a task list snapshot was served from.
type ListSource string

// Possible list source values
const (
	ListSourceCache    ListSource = "cache"
	ListSourceDatabase ListSource = "database"
)

// Common validation errors for Task
var (
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrInvalidTimestamp = errors.New("task updated_at cannot precede created_at")
)

// Task represents a single tracked task. The store assigns ID and both
// timestamps on insert; UpdatedAt is refreshed by the store on every
// mutation and is never earlier than CreatedAt.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskDraft holds caller-supplied fields for a task that has not been
// persisted yet. The store fills in ID, Completed and the timestamps.
type TaskDraft struct {
	Title       string
	Description string
}

// NewTaskDraft creates a draft from the given title and description.
// It normalizes whitespace and returns an error if the title is empty,
// so invalid input is rejected before any store or cache access.
func NewTaskDraft(title, description string) (*TaskDraft, error) {
	draft := &TaskDraft{
		Title:       strings.TrimSpace(title),
		Description: description,
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	return draft, nil
}

// Validate checks if the TaskDraft has valid data.
// Returns an error if any field fails validation.
func (d *TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTaskTitle
	}

	return nil
}

// Validate checks if the Task satisfies the domain invariants.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return ErrInvalidTimestamp
	}

	return nil
}
