package service

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/taskwell/taskwell-api/internal/domain"
)

// Sort fields accepted by TaskFilters.SortBy.
const (
	SortByCreatedAt = "created_at"
	SortByTitle     = "title"
	SortByStatus    = "status"
)

// Sort directions accepted by TaskFilters.SortOrder.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Query parameter bounds.
const (
	QueryLimitDefault = 100
	QueryLimitMax     = 1000
	QuerySearchMaxLen = 100
)

// TaskFilters describes how a task listing is filtered, ordered and paged.
// The zero value is not usable directly; call Normalize to apply defaults
// and Validate to reject out-of-range values before building a page.
type TaskFilters struct {
	Limit     int
	Offset    int
	Status    *domain.TaskStatus
	Search    string
	SortBy    string
	SortOrder string
}

// Normalize fills in defaults for unset fields. It does not clamp or
// correct invalid values; Validate reports those.
func (f *TaskFilters) Normalize() {
	if f.Limit == 0 {
		f.Limit = QueryLimitDefault
	}
	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	if f.SortOrder == "" {
		f.SortOrder = SortOrderDesc
	}
}

// Validate checks every filter field against its allowed range. The first
// violation is returned as a *domain.ValidationError naming the field.
func (f *TaskFilters) Validate() error {
	if f.Limit < 1 || f.Limit > QueryLimitMax {
		return domain.NewValidationError("limit",
			fmt.Sprintf("must be between 1 and %d", QueryLimitMax), domain.ErrValidation)
	}
	if f.Offset < 0 {
		return domain.NewValidationError("offset", "must not be negative", domain.ErrValidation)
	}
	if f.Status != nil && !f.Status.IsValid() {
		return domain.NewValidationError("status",
			fmt.Sprintf("must be one of: %s, %s", domain.TaskStatusPending, domain.TaskStatusCompleted),
			domain.ErrInvalidTaskStatus)
	}
	if len(f.Search) > QuerySearchMaxLen {
		return domain.NewValidationError("search",
			fmt.Sprintf("must not exceed %d characters", QuerySearchMaxLen), domain.ErrValidation)
	}
	switch f.SortBy {
	case SortByCreatedAt, SortByTitle, SortByStatus:
	default:
		return domain.NewValidationError("sortBy",
			fmt.Sprintf("must be one of: %s, %s, %s", SortByCreatedAt, SortByTitle, SortByStatus),
			domain.ErrValidation)
	}
	switch f.SortOrder {
	case SortOrderAsc, SortOrderDesc:
	default:
		return domain.NewValidationError("sortOrder",
			fmt.Sprintf("must be %q or %q", SortOrderAsc, SortOrderDesc), domain.ErrValidation)
	}
	return nil
}

// TaskPage is one page of a filtered task listing. Total counts every task
// that matched the filters, not just the tasks on this page.
type TaskPage struct {
	Tasks  []*domain.Task
	Total  int
	Limit  int
	Offset int
}

// BuildTaskPage filters, orders and pages tasks according to filters, which
// must already be normalized and validated. The input slice is not modified.
//
// Ordering is total: ties on the sort field fall back to ID ascending, so
// the same input always produces the same page regardless of input order.
func BuildTaskPage(tasks []*domain.Task, filters TaskFilters) *TaskPage {
	matched := make([]*domain.Task, 0, len(tasks))
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, task := range tasks {
		if filters.Status != nil && task.Status != *filters.Status {
			continue
		}
		if search != "" && !matchesSearch(task, search) {
			continue
		}
		matched = append(matched, task)
	}

	sortTasks(matched, filters.SortBy, filters.SortOrder)

	page := &TaskPage{
		Tasks:  pageOf(matched, filters.Offset, filters.Limit),
		Total:  len(matched),
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}
	return page
}

// matchesSearch reports whether the lowercased needle occurs in the task's
// title or description.
func matchesSearch(task *domain.Task, needle string) bool {
	if strings.Contains(strings.ToLower(task.Title), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(task.Description), needle)
}

func sortTasks(tasks []*domain.Task, sortBy, sortOrder string) {
	desc := sortOrder == SortOrderDesc
	sort.Slice(tasks, func(i, j int) bool {
		c := compareTasks(tasks[i], tasks[j], sortBy)
		if c == 0 {
			// Tie-break on ID ascending in both directions.
			return bytes.Compare(tasks[i].ID[:], tasks[j].ID[:]) < 0
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareTasks orders a before b when the result is negative.
func compareTasks(a, b *domain.Task, sortBy string) int {
	switch sortBy {
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// pageOf slices out one page, returning an empty slice when the offset runs
// past the end of the matched set.
func pageOf(tasks []*domain.Task, offset, limit int) []*domain.Task {
	if offset >= len(tasks) {
		return []*domain.Task{}
	}
	end := offset + limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[offset:end]
}
