package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/api/shared"
	"github.com/phrazzld/smart-todo-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value is reported as a domain validation error.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// decodeAndValidate decodes the JSON body into v and validates it.
// Decode failures are reported as ErrMalformedRequest.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) error {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.Join(ErrMalformedRequest, errors.New("empty request body"))
		}
		return errors.Join(ErrMalformedRequest, err)
	}
	return shared.ValidateRequest(v)
}
