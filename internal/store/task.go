package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// Pagination defaults applied when a list request omits or mangles page/limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// sortableTaskFields whitelists the API-level field names accepted in a sort
// specification, mapped to validity. Unknown fields are rejected rather than
// passed through to the database as literal sort keys.
var sortableTaskFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"dueDate":   true,
	"priority":  true,
	"status":    true,
	"title":     true,
}

// IsSortableTaskField reports whether field may appear in a task sort
// specification.
func IsSortableTaskField(field string) bool {
	return sortableTaskFields[field]
}

// TaskListParams is the normalized query-engine input for listing tasks.
// All filters are optional and conjoined with AND semantics; the status list
// is the only membership (OR) filter. UserID is mandatory: every list is
// scoped to the requesting user.
type TaskListParams struct {
	UserID     uuid.UUID
	Statuses   []domain.TaskStatus
	Priority   *domain.TaskPriority
	CategoryID *uuid.UUID
	DueAfter   *time.Time // inclusive lower bound on due date
	DueBefore  *time.Time // inclusive upper bound on due date
	Search     string     // free-text match against title/description

	// SortField is an API-level field name already validated against
	// IsSortableTaskField. Empty means the default ordering, newest first.
	SortField string
	SortDesc  bool

	Page  int // 1-based
	Limit int
}

// Normalize coerces page and limit to positive values, applying the defaults
// when they are absent or non-positive.
func (p *TaskListParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
}

// Offset returns the number of rows to skip for the requested page.
func (p TaskListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TaskWithCategory is the denormalized list/read model: a task joined with
// the name and color of its category, when it has one, for display.
type TaskWithCategory struct {
	domain.Task
	CategoryName  *string `json:"categoryName,omitempty"`
	CategoryColor *string `json:"categoryColor,omitempty"`
}

// TaskStore defines the interface for task data persistence and the read
// side of the query engine.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task, or ErrInvalidEntity if
	// a referenced user or category does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID scoped to the owning user.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// GetWithCategory is GetByID with the denormalized category view joined in.
	GetWithCategory(ctx context.Context, userID, id uuid.UUID) (*TaskWithCategory, error)

	// Update persists all mutable fields of the task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID scoped to the owning user.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different user. Counter maintenance is the caller's responsibility.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// List returns one page of tasks matching the params, each populated
	// with its category's name/color when linked.
	List(ctx context.Context, params TaskListParams) ([]*TaskWithCategory, error)

	// Count returns the total number of tasks matching the same predicate as
	// List, ignoring pagination. Used for pagination metadata.
	Count(ctx context.Context, params TaskListParams) (int, error)

	// CountByStatus returns the user-scoped status histogram, independent of
	// any other filters. Statuses with zero tasks are omitted.
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error)

	// ClearCategory nulls the category reference on every task pointing at
	// the given category and returns the number of tasks updated. Used by the
	// category-deletion cascade; it never deletes tasks.
	ClearCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
