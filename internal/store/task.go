package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Every method is atomic on its own; none spans multiple records.
type TaskStore interface {
	// Create saves a new task. The store assigns CreatedAt and UpdatedAt
	// and writes them back into task.
	// Returns ErrInvalidEntity if the task fails validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetAll retrieves every task, newest first by creation time.
	// Returns an empty slice when there are no tasks.
	GetAll(ctx context.Context) ([]*domain.Task, error)

	// Update changes only the fields supplied in update and refreshes
	// UpdatedAt. An empty update is a pure read and leaves UpdatedAt alone.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// Delete removes a task and reports whether it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
