package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/phrazzld/smart-todo-api/internal/platform/logger"
	"github.com/phrazzld/smart-todo-api/internal/store"
)

const taskColumns = "id, title, description, category, estimated_time, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task          domain.Task
		category      string
		description   sql.NullString
		estimatedTime sql.NullInt32
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&category,
		&estimatedTime,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	task.Category = domain.Category(category)
	if description.Valid {
		task.Description = &description.String
	}
	if estimatedTime.Valid {
		minutes := int(estimatedTime.Int32)
		task.EstimatedTime = &minutes
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

// Create implements store.TaskStore.Create.
// The database assigns both timestamps; they are written back into task.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, title, description, category, estimated_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Category),
		task.EstimatedTime,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("insert returned no row: %w", err)
		}
		return MapError(err)
	}

	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	log.Debug("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("category", task.Category.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
// It returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// GetAll implements store.TaskStore.GetAll.
// Tasks come back newest first; ties on created_at are broken by id so the
// order is stable across calls.
func (s *PostgresTaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("retrieved tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update.
// Only the supplied columns are written and updated_at is set to NOW().
// An empty update reads the task without touching it.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	if update.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildUpdateQuery(id, update)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Debug("task updated successfully", slog.String("task_id", id.String()))
	return task, nil
}

// buildUpdateQuery assembles an UPDATE statement whose SET list holds only
// the supplied fields. The id is always the last placeholder.
func buildUpdateQuery(id uuid.UUID, update domain.TaskUpdate) (string, []any) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title.Set {
		add("title", update.Title.Value)
	}
	if update.Description.Set {
		add("description", update.Description.Value)
	}
	if update.Category.Set {
		add("category", string(update.Category.Value))
	}
	if update.EstimatedTime.Set {
		add("estimated_time", update.EstimatedTime.Value)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "),
		len(args),
		taskColumns,
	)
	return query, args
}

// Delete implements store.TaskStore.Delete.
// It reports false, with no error, when no task has the given id.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return false, MapError(err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		log.Error("failed to read delete result",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return false, store.NewStoreError("task", "delete", "rows affected unavailable", err)
	}

	log.Debug("task delete finished",
		slog.String("task_id", id.String()),
		slog.Bool("deleted", n > 0))
	return n > 0, nil
}
