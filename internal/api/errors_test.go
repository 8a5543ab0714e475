package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/smart-todo-api/internal/api/shared"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/phrazzld/smart-todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tagged := struct {
		EstimatedTime int `validate:"max=10"`
	}{EstimatedTime: 11}
	validationErr := shared.ValidateRequest(&tagged)
	require.Error(t, validationErr)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "malformed", err: errors.Join(ErrMalformedRequest, errors.New("eof")), want: http.StatusBadRequest},
		{name: "validator", err: validationErr, want: http.StatusUnprocessableEntity},
		{name: "domain validation", err: domain.NewValidationError("title", "cannot be empty", nil), want: http.StatusUnprocessableEntity},
		{name: "invalid id", err: domain.ErrInvalidID, want: http.StatusUnprocessableEntity},
		{name: "invalid entity", err: fmt.Errorf("%w: check", store.ErrInvalidEntity), want: http.StatusUnprocessableEntity},
		{name: "not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", store.ErrTaskNotFound), want: http.StatusNotFound},
		{name: "duplicate", err: store.ErrDuplicate, want: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Invalid request format", GetSafeErrorMessage(errors.Join(ErrMalformedRequest, errors.New("x"))))
	assert.Equal(t, "Invalid id: has invalid format",
		GetSafeErrorMessage(domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID)))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("password=hunter2 rejected")))
}

func TestSanitizeValidationError(t *testing.T) {
	req := CreateTaskRequest{Title: "ok", EstimatedTime: ptr(2000)}
	err := shared.ValidateRequest(&req)
	require.Error(t, err)
	assert.Equal(t, "Invalid estimated_time: exceeds the maximum", SanitizeValidationError(err))

	req = CreateTaskRequest{}
	err = shared.ValidateRequest(&req)
	require.Error(t, err)
	assert.Equal(t, "Invalid title: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestUpdateTaskRequest_ToTaskUpdate(t *testing.T) {
	req := UpdateTaskRequest{
		Title:    domain.Some("Plan trip"),
		Category: domain.Some("personal"),
	}
	require.NoError(t, req.Validate())

	update := req.ToTaskUpdate()
	assert.Equal(t, domain.Some("Plan trip"), update.Title)
	assert.Equal(t, domain.Some(domain.CategoryPersonal), update.Category)
	assert.False(t, update.Description.Set)
	assert.False(t, update.EstimatedTime.Set)

	assert.True(t, UpdateTaskRequest{}.ToTaskUpdate().IsEmpty())
	assert.NoError(t, UpdateTaskRequest{}.Validate())
}
