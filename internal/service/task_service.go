package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/categorize"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/phrazzld/smart-todo-api/internal/platform/logger"
	"github.com/phrazzld/smart-todo-api/internal/store"
)

// TaskService provides task-related operations.
type TaskService interface {
	// CreateTask categorizes and stores a new task.
	CreateTask(
		ctx context.Context,
		title string,
		description *string,
		estimatedTime *int,
	) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	// Returns store.ErrTaskNotFound if it does not exist.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetAllTasks retrieves every task, newest first.
	GetAllTasks(ctx context.Context) ([]*domain.Task, error)

	// UpdateTask applies a partial update. The category is taken as given;
	// the task is never re-categorized.
	// Returns store.ErrTaskNotFound if it does not exist.
	UpdateTask(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task and reports whether it existed.
	DeleteTask(ctx context.Context, id uuid.UUID) (bool, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks    store.TaskStore
	strategy categorize.Strategy
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService. A nil strategy falls back to
// the factory default.
func NewTaskService(
	tasks store.TaskStore,
	strategy categorize.Strategy,
	logger *slog.Logger,
) TaskService {
	if tasks == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("task store cannot be nil")
	}
	if strategy == nil {
		strategy = categorize.New(categorize.DefaultKey)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:    tasks,
		strategy: strategy,
		logger:   logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	title string,
	description *string,
	estimatedTime *int,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	category := s.strategy.Categorize(title, description)
	task := domain.NewTask(title, description, category, estimatedTime)

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("category", category.String()))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// GetAllTasks implements TaskService.GetAllTasks
func (s *taskServiceImpl) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.GetAll(ctx)
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	task, err := s.tasks.Update(ctx, id, update)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
				slog.String("task_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	if !update.IsEmpty() {
		logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
			slog.String("task_id", id.String()))
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
			slog.String("task_id", id.String()))
	}
	return deleted, nil
}
