package store

import (
	"errors"
	"fmt"
)

// Errors returned by every TaskStore implementation. Callers match them with
// errors.Is; backends wrap driver errors so the driver never leaks upward.
var (
	// ErrNotFound is the parent of every lookup miss.
	ErrNotFound = errors.New("entity not found")

	// ErrTaskNotFound means no task has the requested id.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrDuplicate means a task with the same id is already stored.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means the task failed domain validation or a table
	// constraint. The domain error, when there is one, is wrapped alongside.
	ErrInvalidEntity = errors.New("invalid entity")
)

// IsNotFoundError reports whether err is a lookup miss.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError records which store call failed, for backend errors that have
// no sentinel of their own.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := e.Entity + " " + e.Operation + ": " + e.Message
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the entity and operation it came from.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
