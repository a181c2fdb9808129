package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/memory"
	"github.com/taskwell/taskwell-api/internal/service/auth"
)

const testJWTSecret = "test-secret-that-is-long-enough-for-testing"

func seedActiveUser(t *testing.T, userStore *memory.MemoryUserStore, active bool) uuid.UUID {
	t.Helper()
	user, err := domain.NewUser("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	user.HashedPassword = "$2a$04$notaverifiedhashbutstoredanyway"
	user.Password = ""
	user.IsActive = active
	require.NoError(t, userStore.Create(context.Background(), user))
	return user.ID
}

// echoUserID records the user ID the middleware put in the context.
func echoUserID(captured *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := GetUserID(r); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtService := auth.NewTestJWTService(testJWTSecret, time.Hour, nil)

	t.Run("valid token passes through with user ID in context", func(t *testing.T) {
		t.Parallel()
		userStore := memory.NewMemoryUserStore()
		userID := seedActiveUser(t, userStore, true)
		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		var captured uuid.UUID
		mw := NewAuthMiddleware(jwtService, userStore)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.Authenticate(echoUserID(&captured)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, captured)
	})

	t.Run("missing header is a 401", func(t *testing.T) {
		t.Parallel()
		mw := NewAuthMiddleware(jwtService, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		w := httptest.NewRecorder()
		mw.Authenticate(echoUserID(new(uuid.UUID))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer scheme is a 401", func(t *testing.T) {
		t.Parallel()
		mw := NewAuthMiddleware(jwtService, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		mw.Authenticate(echoUserID(new(uuid.UUID))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is a 401", func(t *testing.T) {
		t.Parallel()
		past := time.Now().Add(-2 * time.Hour)
		issuer := auth.NewTestJWTService(testJWTSecret, time.Hour, func() time.Time { return past })
		token, err := issuer.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		mw := NewAuthMiddleware(jwtService, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.Authenticate(echoUserID(new(uuid.UUID))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("token signed with another secret is a 401", func(t *testing.T) {
		t.Parallel()
		other := auth.NewTestJWTService("another-secret-that-is-long-enough!!", time.Hour, nil)
		token, err := other.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		mw := NewAuthMiddleware(jwtService, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.Authenticate(echoUserID(new(uuid.UUID))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token for unknown user is a 401", func(t *testing.T) {
		t.Parallel()
		userStore := memory.NewMemoryUserStore()
		token, err := jwtService.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		mw := NewAuthMiddleware(jwtService, userStore)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.Authenticate(echoUserID(new(uuid.UUID))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token for deactivated user is a 401", func(t *testing.T) {
		t.Parallel()
		userStore := memory.NewMemoryUserStore()
		userID := seedActiveUser(t, userStore, false)
		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		mw := NewAuthMiddleware(jwtService, userStore)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.Authenticate(echoUserID(new(uuid.UUID))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "deactivated")
	})
}
