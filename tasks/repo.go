package tasks

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no task matches the (user, id) pair. A task
// owned by a different user is indistinguishable from an absent one.
var ErrNotFound = errors.New("task not found")

// Repo is the task store. All lookups are scoped by the owning user id.
type Repo interface {
	// Create persists a new task. The caller assigns the ID.
	Create(ctx context.Context, task *Task) error
	// GetByID returns the user's task, or ErrNotFound.
	GetByID(ctx context.Context, userID, id string) (*Task, error)
	// List returns one page of the user's tasks ordered by creation time
	// descending, plus the total match count.
	List(ctx context.Context, userID string, filter ListFilter) ([]*Task, int, error)
	// Update persists title/completed changes to an existing task.
	Update(ctx context.Context, task *Task) error
	// Delete removes the user's task, or returns ErrNotFound.
	Delete(ctx context.Context, userID, id string) error
}
