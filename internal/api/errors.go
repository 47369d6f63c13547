package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/service"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrWordNotFound),
		errors.Is(err, store.ErrUserWordNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrWordDataUnavailable),
		errors.Is(err, quiz.ErrNoContent):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrWordExists),
		errors.Is(err, store.ErrUserWordExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, quiz.ErrInvalidMode),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidLevel):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, quiz.ErrNoContent):
		return "No words saved for learning. Please add some words first."

	case errors.Is(err, service.ErrWordDataUnavailable):
		return "No dictionary entry found for this word"

	case errors.Is(err, store.ErrWordNotFound):
		return "Word not found"

	case errors.Is(err, store.ErrUserWordNotFound):
		return "Saved word not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrWordExists):
		return "Word already exists"

	case errors.Is(err, store.ErrUserWordExists):
		return "Word is already saved for this learner"

	// Bad request errors
	case errors.Is(err, quiz.ErrInvalidMode):
		return "Invalid quiz mode"

	case errors.Is(err, domain.ErrInvalidLevel):
		return "Invalid proficiency level"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validator.ValidationErrors message
	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'FetchWordRequest.Word' Error:Field validation for 'Word' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier format"
	default:
		return "validation failed"
	}
}
