package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// openTestDB connects to the database named by TEST_DATABASE_URL, or skips
// the test when the variable is unset. The tasks table must already exist
// (run the migrations against the test database first).
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set (integration test)")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("TRUNCATE tasks RESTART IDENTITY")
	require.NoError(t, err)

	return db
}

func TestPostgresTaskStore_CreateAndList(t *testing.T) {
	db := openTestDB(t)
	taskStore := NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	draftA, err := domain.NewTaskDraft("A", "d1")
	require.NoError(t, err)
	createdA, err := taskStore.CreateTask(ctx, draftA)
	require.NoError(t, err)
	assert.NotZero(t, createdA.ID)
	assert.False(t, createdA.Completed)
	assert.False(t, createdA.CreatedAt.IsZero())
	assert.False(t, createdA.UpdatedAt.Before(createdA.CreatedAt))

	// Ensure B gets a strictly later created_at.
	time.Sleep(10 * time.Millisecond)

	draftB, err := domain.NewTaskDraft("B", "d2")
	require.NoError(t, err)
	createdB, err := taskStore.CreateTask(ctx, draftB)
	require.NoError(t, err)
	assert.Greater(t, createdB.ID, createdA.ID)

	tasks, err := taskStore.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "B", tasks[0].Title, "newest task must come first")
	assert.Equal(t, "A", tasks[1].Title)
}

func TestPostgresTaskStore_ListOrderingWithSharedTimestamp(t *testing.T) {
	db := openTestDB(t)
	taskStore := NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	// Insert several rows with identical created_at inside one statement;
	// the id tie-break must preserve insertion order.
	now := time.Now().UTC().Truncate(time.Microsecond)
	for i := 1; i <= 3; i++ {
		_, err := db.ExecContext(ctx,
			`INSERT INTO tasks (title, description, created_at, updated_at)
			 VALUES ($1, '', $2, $2)`,
			fmt.Sprintf("tied-%d", i), now)
		require.NoError(t, err)
	}

	tasks, err := taskStore.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "tied-1", tasks[0].Title)
	assert.Equal(t, "tied-2", tasks[1].Title)
	assert.Equal(t, "tied-3", tasks[2].Title)
}

func TestPostgresTaskStore_EmptyTitleRejected(t *testing.T) {
	db := openTestDB(t)
	taskStore := NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	// Draft validation rejects before reaching the database.
	created, err := taskStore.CreateTask(ctx, &domain.TaskDraft{Title: "  "})
	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)

	// The check constraint backs the same rule at the table level.
	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (title, description) VALUES ('', '')`)
	require.Error(t, err, "empty title must violate the check constraint")

	tasks, err := taskStore.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks, "no row may exist after rejected creates")
}

func TestPostgresTaskStore_UpdatedAtTrigger(t *testing.T) {
	db := openTestDB(t)
	taskStore := NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	draft, err := domain.NewTaskDraft("toggle me", "")
	require.NoError(t, err)
	created, err := taskStore.CreateTask(ctx, draft)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = db.ExecContext(ctx,
		`UPDATE tasks SET completed = TRUE WHERE id = $1`, created.ID)
	require.NoError(t, err)

	tasks, err := taskStore.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.True(t, tasks[0].UpdatedAt.After(tasks[0].CreatedAt),
		"trigger must refresh updated_at on mutation")
	assert.Equal(t, created.CreatedAt.UTC(), tasks[0].CreatedAt.UTC(),
		"created_at is immutable")
}
