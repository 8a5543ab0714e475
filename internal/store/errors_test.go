package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, expected: true},
		{name: "wrapped ErrTaskNotFound", err: fmt.Errorf("lookup: %w", ErrTaskNotFound), expected: true},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewStoreError("task", "create", "insert failed", cause)

		assert.Equal(t, "task create: insert failed: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("task", "delete", "rows affected unavailable", nil)

		assert.Equal(t, "task delete: rows affected unavailable", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("sentinel survives wrapping", func(t *testing.T) {
		err := NewStoreError("task", "create", "validation", fmt.Errorf("%w: title", ErrInvalidEntity))
		assert.ErrorIs(t, err, ErrInvalidEntity)
	})
}
