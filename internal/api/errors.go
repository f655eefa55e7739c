package api

import (
	"errors"
	"net/http"

	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// MapErrorToStatusCode maps service and store errors to HTTP status
// codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case store.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error.
// Internal detail never leaks into the response body.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrTestNotFound):
		return "Test not found"
	case errors.Is(err, store.ErrResultNotFound):
		return "Result not found"
	case errors.Is(err, store.ErrTopicNotFound):
		return "Topic not found"
	case store.IsNotFoundError(err):
		return "Resource not found"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"
	case isValidationError(err):
		return err.Error()
	default:
		return "An internal error occurred"
	}
}

// isValidationError reports whether the error is one of the domain
// validation sentinels, which are safe to echo to the client.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrEmptyTestName,
		domain.ErrNoQuestions,
		domain.ErrEmptyResultTestName,
		domain.ErrInvalidScore,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
