package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for Task.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxEstimatedTime     = 1440 // minutes in a day
)

// Task is the single persistent entity of the API.
type Task struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Category      Category  `json:"category"`
	EstimatedTime *int      `json:"estimated_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTask creates a Task with a fresh identifier. Timestamps are left
// zero; the store assigns them when the record is persisted.
func NewTask(title string, description *string, category Category, estimatedTime *int) *Task {
	return &Task{
		ID:            uuid.New(),
		Title:         title,
		Description:   description,
		Category:      category,
		EstimatedTime: estimatedTime,
	}
}

// Validate checks the Task against the field limits.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.Title == "" {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return NewValidationError("title", "is too long", nil)
	}
	if t.Description != nil && utf8.RuneCountInString(*t.Description) > MaxDescriptionLength {
		return NewValidationError("description", "is too long", nil)
	}
	if !t.Category.Valid() {
		return NewValidationError("category", "is not one of work, personal, urgent", ErrInvalidCategory)
	}
	if t.EstimatedTime != nil && (*t.EstimatedTime < 0 || *t.EstimatedTime > MaxEstimatedTime) {
		return NewValidationError("estimated_time", "must be between 0 and 1440", nil)
	}
	return nil
}

// TaskUpdate names the fields to change on an existing task. Fields whose
// Set flag is false are left untouched.
type TaskUpdate struct {
	Title         Optional[string]
	Description   Optional[*string]
	Category      Optional[Category]
	EstimatedTime Optional[*int]
}

// IsEmpty reports whether the update names no fields at all.
func (u TaskUpdate) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Category.Set && !u.EstimatedTime.Set
}

// Apply copies the supplied fields onto t. It does not touch timestamps.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title.Set {
		t.Title = u.Title.Value
	}
	if u.Description.Set {
		t.Description = u.Description.Value
	}
	if u.Category.Set {
		t.Category = u.Category.Value
	}
	if u.EstimatedTime.Set {
		t.EstimatedTime = u.EstimatedTime.Value
	}
}
