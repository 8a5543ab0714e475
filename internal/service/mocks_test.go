package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
)

// MockTaskStore is a store.TaskStore whose behavior is set per test.
type MockTaskStore struct {
	CreateFn  func(ctx context.Context, task *domain.Task) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetAllFn  func(ctx context.Context) ([]*domain.Task, error)
	UpdateFn  func(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.CreateFn(ctx, task)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *MockTaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	return m.GetAllFn(ctx)
}

func (m *MockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	return m.UpdateFn(ctx, id, update)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.DeleteFn(ctx, id)
}

// countingStrategy records how often it is asked and always answers category.
type countingStrategy struct {
	category domain.Category
	calls    int
}

func (s *countingStrategy) Categorize(string, *string) domain.Category {
	s.calls++
	return s.category
}
