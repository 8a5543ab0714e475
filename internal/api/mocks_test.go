package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
)

// MockTaskService is a service.TaskService whose behavior is set per test.
type MockTaskService struct {
	CreateTaskFn  func(ctx context.Context, title string, description *string, estimatedTime *int) (*domain.Task, error)
	GetTaskFn     func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetAllTasksFn func(ctx context.Context) ([]*domain.Task, error)
	UpdateTaskFn  func(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)
	DeleteTaskFn  func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockTaskService) CreateTask(
	ctx context.Context,
	title string,
	description *string,
	estimatedTime *int,
) (*domain.Task, error) {
	return m.CreateTaskFn(ctx, title, description, estimatedTime)
}

func (m *MockTaskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return m.GetTaskFn(ctx, id)
}

func (m *MockTaskService) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	return m.GetAllTasksFn(ctx)
}

func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	return m.UpdateTaskFn(ctx, id, update)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.DeleteTaskFn(ctx, id)
}
