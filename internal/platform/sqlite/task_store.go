package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/phrazzld/smart-todo-api/internal/platform/logger"
	"github.com/phrazzld/smart-todo-api/internal/store"
	"gorm.io/gorm"
)

// taskRecord is the gorm model for the tasks table.
type taskRecord struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)"`
	Title         string  `gorm:"type:varchar(200);not null"`
	Description   *string `gorm:"type:text"`
	Category      string  `gorm:"type:varchar(50);not null;index:idx_tasks_category"`
	EstimatedTime *int
	CreatedAt     time.Time `gorm:"not null;index:idx_tasks_created_at,sort:desc"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (taskRecord) TableName() string { return "tasks" }

func newTaskRecord(t *domain.Task) *taskRecord {
	return &taskRecord{
		ID:            t.ID.String(),
		Title:         t.Title,
		Description:   t.Description,
		Category:      string(t.Category),
		EstimatedTime: t.EstimatedTime,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r *taskRecord) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt task id %q: %w", r.ID, err)
	}
	return &domain.Task{
		ID:            id,
		Title:         r.Title,
		Description:   r.Description,
		Category:      domain.Category(r.Category),
		EstimatedTime: r.EstimatedTime,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}, nil
}

// TaskStore implements store.TaskStore on top of gorm and SQLite.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore. It panics if db is nil.
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_task_store")),
	}
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrTaskNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	default:
		return err
	}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	rec := newTaskRecord(task)
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", rec.ID))
		return mapError(err)
	}

	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var rec taskRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id.String()).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, mapError(err)
	}
	return rec.toDomain()
}

// GetAll implements store.TaskStore.GetAll.
func (s *TaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	var recs []taskRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC, id").Find(&recs).Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	tasks := make([]*domain.Task, 0, len(recs))
	for i := range recs {
		task, err := recs[i].toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Update implements store.TaskStore.Update. The read and the write run in
// one transaction.
func (s *TaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	if update.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	var rec taskRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id.String()).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		if now.Before(rec.CreatedAt) {
			now = rec.CreatedAt
		}

		changes := map[string]any{"updated_at": now}
		if update.Title.Set {
			changes["title"] = update.Title.Value
		}
		if update.Description.Set {
			changes["description"] = update.Description.Value
		}
		if update.Category.Set {
			changes["category"] = string(update.Category.Value)
		}
		if update.EstimatedTime.Set {
			changes["estimated_time"] = update.EstimatedTime.Value
		}

		if err := tx.Model(&rec).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&rec, "id = ?", id.String()).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, mapError(err)
	}

	return rec.toDomain()
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id.String())
	if res.Error != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", res.Error.Error()),
			slog.String("task_id", id.String()))
		return false, mapError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
