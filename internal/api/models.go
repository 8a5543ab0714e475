package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/api/shared"
	"github.com/phrazzld/smart-todo-api/internal/domain"
)

// CreateTaskRequest defines the payload for POST /api/tasks.
// The category is never accepted here; it is computed by the service.
type CreateTaskRequest struct {
	Title         string  `json:"title"          validate:"required,min=1,max=200"`
	Description   *string `json:"description"    validate:"omitnil,max=2000"`
	EstimatedTime *int    `json:"estimated_time" validate:"omitnil,min=0,max=1440"`
}

// UpdateTaskRequest defines the payload for PUT /api/tasks/{id}.
// Absent keys leave the field unchanged; an explicit null clears
// description or estimated_time.
type UpdateTaskRequest struct {
	Title         domain.Optional[string]  `json:"title"`
	Description   domain.Optional[*string] `json:"description"`
	Category      domain.Optional[string]  `json:"category"`
	EstimatedTime domain.Optional[*int]    `json:"estimated_time"`
}

// updateTaskFields is the tagged view of UpdateTaskRequest that the
// validator checks. A nil pointer means "nothing to check".
type updateTaskFields struct {
	Title         *string `validate:"omitnil,min=1,max=200"`
	Description   *string `validate:"omitnil,max=2000"`
	Category      *string `validate:"omitnil,oneof=work personal urgent"`
	EstimatedTime *int    `validate:"omitnil,min=0,max=1440"`
}

// Validate checks every supplied field against the task limits.
func (r UpdateTaskRequest) Validate() error {
	var fields updateTaskFields
	if r.Title.Set {
		fields.Title = &r.Title.Value
	}
	if r.Description.Set {
		fields.Description = r.Description.Value
	}
	if r.Category.Set {
		fields.Category = &r.Category.Value
	}
	if r.EstimatedTime.Set {
		fields.EstimatedTime = r.EstimatedTime.Value
	}
	return shared.Validator().Struct(fields)
}

// ToTaskUpdate converts a validated request into a domain.TaskUpdate.
func (r UpdateTaskRequest) ToTaskUpdate() domain.TaskUpdate {
	update := domain.TaskUpdate{
		Title:         r.Title,
		Description:   r.Description,
		EstimatedTime: r.EstimatedTime,
	}
	if r.Category.Set {
		update.Category = domain.Some(domain.Category(r.Category.Value))
	}
	return update
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Category      string    `json:"category"`
	EstimatedTime *int      `json:"estimated_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Category:      task.Category.String(),
		EstimatedTime: task.EstimatedTime,
		CreatedAt:     task.CreatedAt.UTC(),
		UpdatedAt:     task.UpdatedAt.UTC(),
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
