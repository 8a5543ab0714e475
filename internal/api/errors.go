package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/smart-todo-api/internal/api/shared"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/phrazzld/smart-todo-api/internal/store"
)

// ErrMalformedRequest marks a request body that is not valid JSON.
var ErrMalformedRequest = errors.New("malformed request body")

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest

	case errors.As(err, &validationErrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, ErrMalformedRequest):
		return "Invalid request format"
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, store.ErrNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Task already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message
// naming the first offending field by its JSON name.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe), getValidationTagMessage(fe.Tag()))
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	}

	return "Validation error"
}

// jsonFieldName converts a struct field name such as EstimatedTime into
// the snake_case name clients send.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "is below the minimum"
	case "max", "lte":
		return "exceeds the maximum"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. Server errors carry
// fallbackMessage instead of anything derived from err.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)

	var message string
	switch {
	case status >= http.StatusInternalServerError:
		message = fallbackMessage
		if message == "" {
			message = GetSafeErrorMessage(err)
		}
	case isValidationFailure(err):
		message = SanitizeValidationError(err)
	default:
		message = GetSafeErrorMessage(err)
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

func isValidationFailure(err error) bool {
	var validationErrs validator.ValidationErrors
	var domainErr *domain.ValidationError
	return errors.As(err, &validationErrs) || errors.As(err, &domainErr)
}
