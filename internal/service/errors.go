package service

import (
	"errors"
	"fmt"
	"time"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes and nothing above it re-interprets error kinds.
var (
	// ErrRateLimited indicates the principal exhausted its request quota for
	// the current window. API layer maps this to HTTP 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNoFields indicates an update request that carries no fields at all.
	ErrNoFields = errors.New("update must include at least one field")
)

// RateLimitError carries the retry delay alongside the throttling decision
// so the API layer can set the Retry-After header. It unwraps to
// ErrRateLimited for errors.Is checks.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface for RateLimitError.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// Unwrap returns ErrRateLimited to support errors.Is.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
