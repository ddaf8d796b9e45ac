package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Valid task statuses
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusArchived   TaskStatus = "archived"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Valid task priorities
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task-specific validation errors
var (
	ErrTaskIDEmpty     = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")
	ErrTaskTitleEmpty  = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New(
		"task title cannot be more than 200 characters",
	)
)

// IsValid reports whether s is one of the recognized task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusArchived:
		return true
	}
	return false
}

// ParseTaskStatus converts a raw string into a TaskStatus.
// Returns ErrInvalidStatus if the value is not one of the four statuses.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// IsValid reports whether p is one of the recognized task priorities.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// ParseTaskPriority converts a raw string into a TaskPriority.
// Returns ErrInvalidPriority if the value is not one of the three priorities.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	p := TaskPriority(raw)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

// ValidateStatusTransition checks the single lifecycle guard: an archived task
// may not move directly to in-progress. Every other pair of statuses is a
// permitted transition.
func ValidateStatusTransition(from, to TaskStatus) error {
	if from == TaskStatusArchived && to == TaskStatusInProgress {
		return fmt.Errorf("%w: cannot move archived task to in-progress directly",
			ErrInvalidTransition)
	}
	return nil
}

// Task is a unit of tracked work owned by exactly one user. CategoryID, when
// set, must reference a category owned by the same user.
type Task struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"userId"`
	CategoryID     *uuid.UUID   `json:"categoryId,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	DueDate        *time.Time   `json:"dueDate,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	EstimatedHours *float64     `json:"estimatedHours,omitempty"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// NewTask creates a new Task with the given owner and title, applying the
// creation defaults (status todo, priority medium).
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Status:    TaskStatusTodo,
		Priority:  TaskPriorityMedium,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}
	if len(t.Title) > 200 {
		return ErrTaskTitleTooLong
	}

	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}

	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}

	return nil
}

// TransitionTo applies a status change, enforcing the lifecycle guard and the
// completion side effect: arriving at completed from any non-completed state
// stamps CompletedAt with now. Leaving completed never clears CompletedAt; it
// records the last time the task was completed.
func (t *Task) TransitionTo(status TaskStatus, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := ValidateStatusTransition(t.Status, status); err != nil {
		return err
	}

	if status == TaskStatusCompleted && t.Status != TaskStatusCompleted {
		completedAt := now.UTC()
		t.CompletedAt = &completedAt
	}

	t.Status = status
	t.UpdatedAt = now.UTC()
	return nil
}

// IsCompleted reports whether the task is currently in the completed state.
func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskStatusCompleted
}
