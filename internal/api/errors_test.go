package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskwell/taskwell-api/internal/cache"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/ratelimit"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error type", domain.NewValidationError("title", "is required", domain.ErrValidation), http.StatusUnprocessableEntity},
		{"wrapped validation sentinel", fmt.Errorf("%w: bad", domain.ErrValidation), http.StatusUnprocessableEntity},
		{"invalid entity", store.ErrInvalidEntity, http.StatusUnprocessableEntity},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive account", domain.ErrUserInactive, http.StatusUnauthorized},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"rate limited", service.ErrRateLimited, http.StatusTooManyRequests},
		{"rate limit error type", &service.RateLimitError{RetryAfter: time.Second}, http.StatusTooManyRequests},
		{"store unavailable", store.ErrUnavailable, http.StatusServiceUnavailable},
		{"cache unavailable", cache.ErrUnavailable, http.StatusServiceUnavailable},
		{"limiter unavailable", ratelimit.ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}

	t.Run("wrapped errors map through errors.Is", func(t *testing.T) {
		t.Parallel()
		wrapped := service.NewTaskServiceError("get", "failed to load task", store.ErrUnavailable)
		assert.Equal(t, http.StatusServiceUnavailable, MapErrorToStatusCode(wrapped))
	})
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("validation errors expose the field", func(t *testing.T) {
		t.Parallel()
		err := domain.NewValidationError("limit", "must be between 1 and 1000", domain.ErrValidation)
		assert.Equal(t, "Invalid limit: must be between 1 and 1000", GetSafeErrorMessage(err))
	})

	t.Run("internal details never leak", func(t *testing.T) {
		t.Parallel()
		err := errors.New("pq: connection to 10.0.0.3:5432 refused, password=hunter2")
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})
}

func TestHandleAPIErrorSetsRetryAfter(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

	HandleAPIError(w, r, &service.RateLimitError{RetryAfter: 42 * time.Second}, "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
}

func TestHandleAPIErrorRetryAfterFloor(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

	HandleAPIError(w, r, &service.RateLimitError{RetryAfter: 10 * time.Millisecond}, "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Username' Error:Field validation for 'Username' failed on the 'required' tag")
	assert.Equal(t, "Invalid Username: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
