package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/store"
)

// stubTaskService scripts TaskService responses for handler tests.
type stubTaskService struct {
	task       *domain.Task
	page       *service.TaskPage
	deleted    *service.DeleteConfirmation
	err        error
	gotFilters service.TaskFilters
	gotPatch   domain.TaskPatch
}

func (s *stubTaskService) CreateTask(ctx context.Context, principal uuid.UUID, title, description string, status domain.TaskStatus) (*domain.Task, error) {
	return s.task, s.err
}

func (s *stubTaskService) GetTask(ctx context.Context, principal, taskID uuid.UUID) (*domain.Task, error) {
	return s.task, s.err
}

func (s *stubTaskService) ListTasks(ctx context.Context, principal uuid.UUID, filters service.TaskFilters) (*service.TaskPage, error) {
	s.gotFilters = filters
	return s.page, s.err
}

func (s *stubTaskService) UpdateTask(ctx context.Context, principal, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	s.gotPatch = patch
	return s.task, s.err
}

func (s *stubTaskService) DeleteTask(ctx context.Context, principal, taskID uuid.UUID) (*service.DeleteConfirmation, error) {
	return s.deleted, s.err
}

var _ service.TaskService = (*stubTaskService)(nil)

// newTaskRouter mounts the handler behind a middleware that injects the
// authenticated user, mirroring the production middleware chain.
func newTaskRouter(svc service.TaskService, userID uuid.UUID) http.Handler {
	handler := NewTaskHandler(svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/tasks", handler.CreateTask)
	r.Get("/tasks", handler.ListTasks)
	r.Get("/tasks/{id}", handler.GetTask)
	r.Patch("/tasks/{id}", handler.UpdateTask)
	r.Delete("/tasks/{id}", handler.DeleteTask)
	return r
}

func sampleTask(owner uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     "Sample",
		Status:    domain.TaskStatusPending,
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateTaskHandler(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{task: sampleTask(owner)}
		router := newTaskRouter(svc, owner)

		body := bytes.NewBufferString(`{"title":"Sample","description":"d"}`)
		req := httptest.NewRequest(http.MethodPost, "/tasks", body)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Sample", resp.Title)
		assert.Equal(t, string(domain.TaskStatusPending), resp.Status)
		assert.Nil(t, resp.UpdatedAt)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&stubTaskService{}, owner)

		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing title is a 422", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&stubTaskService{}, owner)

		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"description":"d"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("no authenticated user is a 401", func(t *testing.T) {
		t.Parallel()
		handler := NewTaskHandler(&stubTaskService{})
		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"title":"x"}`))
		w := httptest.NewRecorder()
		handler.CreateTask(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rate limited create carries Retry-After", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{err: &service.RateLimitError{RetryAfter: 30 * time.Second}}
		router := newTaskRouter(svc, owner)

		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"title":"x"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
	})
}

func TestGetTaskHandler(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		task := sampleTask(owner)
		router := newTaskRouter(&stubTaskService{task: task}, owner)

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, task.ID.String(), resp.ID)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&stubTaskService{err: store.ErrTaskNotFound}, owner)

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is a 422 without reaching the service", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{task: sampleTask(owner)}
		router := newTaskRouter(svc, owner)

		req := httptest.NewRequest(http.MethodGet, "/tasks/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestListTasksHandler(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("returns page with totals", func(t *testing.T) {
		t.Parallel()
		task := sampleTask(owner)
		svc := &stubTaskService{page: &service.TaskPage{
			Tasks:  []*domain.Task{task},
			Total:  7,
			Limit:  1,
			Offset: 2,
		}}
		router := newTaskRouter(svc, owner)

		req := httptest.NewRequest(http.MethodGet, "/tasks?limit=1&offset=2&status=pending&search=sam&sort_by=title&sort_order=asc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp TaskListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp.Total)
		assert.Len(t, resp.Tasks, 1)

		// Query parameters reach the service unchanged.
		assert.Equal(t, 1, svc.gotFilters.Limit)
		assert.Equal(t, 2, svc.gotFilters.Offset)
		require.NotNil(t, svc.gotFilters.Status)
		assert.Equal(t, domain.TaskStatusPending, *svc.gotFilters.Status)
		assert.Equal(t, "sam", svc.gotFilters.Search)
		assert.Equal(t, service.SortByTitle, svc.gotFilters.SortBy)
		assert.Equal(t, service.SortOrderAsc, svc.gotFilters.SortOrder)
	})

	t.Run("non-numeric limit is a 422", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&stubTaskService{}, owner)

		req := httptest.NewRequest(http.MethodGet, "/tasks?limit=lots", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("empty page serializes as empty array", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{page: &service.TaskPage{Tasks: []*domain.Task{}, Limit: 100}}
		router := newTaskRouter(svc, owner)

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"tasks":[]`)
	})
}

func TestUpdateTaskHandler(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("partial patch only carries present fields", func(t *testing.T) {
		t.Parallel()
		task := sampleTask(owner)
		svc := &stubTaskService{task: task}
		router := newTaskRouter(svc, owner)

		req := httptest.NewRequest(http.MethodPatch, "/tasks/"+task.ID.String(),
			bytes.NewBufferString(`{"status":"completed"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, svc.gotPatch.Title)
		assert.Nil(t, svc.gotPatch.Description)
		require.NotNil(t, svc.gotPatch.Status)
		assert.Equal(t, domain.TaskStatusCompleted, *svc.gotPatch.Status)
	})

	t.Run("invalid transition maps to 409", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{err: domain.ErrInvalidTransition}
		router := newTaskRouter(svc, owner)

		req := httptest.NewRequest(http.MethodPatch, "/tasks/"+uuid.NewString(),
			bytes.NewBufferString(`{"status":"completed"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown status value is a 422", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&stubTaskService{}, owner)

		req := httptest.NewRequest(http.MethodPatch, "/tasks/"+uuid.NewString(),
			bytes.NewBufferString(`{"status":"archived"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	deletedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{deleted: &service.DeleteConfirmation{
			Message:   "Task deleted successfully",
			DeletedAt: deletedAt,
		}}
		router := newTaskRouter(svc, owner)

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp DeleteTaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Task deleted successfully", resp.Message)
		assert.True(t, resp.DeletedAt.Equal(deletedAt))
	})

	t.Run("missing task maps to 404", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&stubTaskService{err: store.ErrTaskNotFound}, owner)

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
