// Package service provides application-level services that orchestrate the
// pure review core (srs, quiz) with persistence and external enrichment.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These represent expected conditions that callers check with errors.Is();
// unexpected failures are wrapped in ServiceError instead. The API layer maps
// both onto HTTP status codes.
var (
	// ErrWordDataUnavailable indicates the dictionary has no usable entry
	// for a requested word, so it cannot be ingested.
	// API layer should map this to HTTP 404 Not Found.
	ErrWordDataUnavailable = errors.New("word not found in dictionary")
)

// ServiceError is a custom error type for unexpected service failures.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return "service " + e.Operation + " failed: " + e.Message + ": " + e.Err.Error()
	}
	return "service " + e.Operation + " failed: " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
