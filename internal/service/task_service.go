package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
// Status and Priority are raw strings validated against the domain enums;
// empty values take the creation defaults.
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	DueDate        *time.Time
	CategoryID     *uuid.UUID
	Tags           []string
	EstimatedHours *float64
}

// UpdateTaskInput is a patch: nil fields are left unchanged. The category
// reference is tri-state: a nil CategoryID with ClearCategory false leaves
// the link alone, while ClearCategory true unlinks the task and decrements
// the old category's counter.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	DueDate        *time.Time
	CategoryID     *uuid.UUID
	ClearCategory  bool
	Tags           []string
	EstimatedHours *float64
}

// Pagination is the metadata accompanying a task page.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// ListTasksResult is the query-engine output: one page of tasks, pagination
// metadata for the full match, and the user-wide status histogram.
type ListTasksResult struct {
	Tasks      []*store.TaskWithCategory `json:"tasks"`
	Pagination Pagination                `json:"pagination"`
	Stats      map[domain.TaskStatus]int `json:"stats"`
}

// TaskService provides task operations scoped to a user, maintaining the
// category task-count invariant across every mutation.
type TaskService interface {
	// CreateTask creates a task, validating any category reference against
	// the owning user before incrementing that category's counter.
	// Returns ErrInvalidCategoryRef if the category is missing or foreign.
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask returns a single task with its denormalized category view.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*store.TaskWithCategory, error)

	// ListTasks runs the filter/sort/paginate/aggregate pipeline.
	ListTasks(ctx context.Context, userID uuid.UUID, query TaskListQuery) (*ListTasksResult, error)

	// UpdateTask applies a field patch, enforcing the status transition guard
	// and re-linking category counters when the category reference changes.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error)

	// UpdateTaskStatus applies a status transition.
	// Returns domain.ErrInvalidStatus for unknown statuses and
	// domain.ErrInvalidTransition for the forbidden archived to in-progress move.
	UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status string) (*domain.Task, error)

	// UpdateTaskPriority changes the task's priority.
	UpdateTaskPriority(ctx context.Context, userID, taskID uuid.UUID, priority string) (*domain.Task, error)

	// DeleteTask removes a task, decrementing its category's counter if it
	// had one.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	db            *sql.DB
	logger        *slog.Logger
	timeFunc      func() time.Time // Injectable for testing
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskStore store.TaskStore,
	categoryStore store.CategoryStore,
	db *sql.DB,
	logger *slog.Logger,
) (*TaskServiceImpl, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if categoryStore == nil {
		return nil, fmt.Errorf("categoryStore cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskServiceImpl{
		taskStore:     taskStore,
		categoryStore: categoryStore,
		db:            db,
		logger:        logger.With("component", "task_service"),
		timeFunc:      time.Now,
	}, nil
}

// CreateTask implements TaskService.CreateTask
// The category reference is validated strictly before any write so a bad
// reference performs no counter mutation.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(userID, input.Title)
	if err != nil {
		return nil, err
	}

	task.Description = input.Description
	task.DueDate = input.DueDate
	task.Tags = input.Tags
	task.EstimatedHours = input.EstimatedHours

	if input.Status != "" {
		status, err := domain.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if input.Priority != "" {
		priority, err := domain.ParseTaskPriority(input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}

	if input.CategoryID != nil {
		if err := s.checkCategoryRef(ctx, userID, *input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}

	if task.CategoryID == nil {
		if err := s.taskStore.Create(ctx, task); err != nil {
			return nil, err
		}
		return task, nil
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).Create(ctx, task); err != nil {
			return err
		}
		return s.categoryStore.WithTx(tx).AdjustTaskCount(ctx, *task.CategoryID, 1)
	})
	if err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", userID)
		return nil, err
	}

	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*store.TaskWithCategory, error) {
	return s.taskStore.GetWithCategory(ctx, userID, taskID)
}

// ListTasks implements TaskService.ListTasks
// The page of tasks and the total count run against the same predicate; the
// status histogram is scoped to the user only, independent of the filters.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID, query TaskListQuery) (*ListTasksResult, error) {
	params, err := query.normalize(userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskStore.List(ctx, params)
	if err != nil {
		return nil, err
	}

	total, err := s.taskStore.Count(ctx, params)
	if err != nil {
		return nil, err
	}

	stats, err := s.taskStore.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListTasksResult{
		Tasks: tasks,
		Pagination: Pagination{
			Total: total,
			Page:  params.Page,
			Limit: params.Limit,
			Pages: pageCount(total, params.Limit),
		},
		Stats: stats,
	}, nil
}

// UpdateTask implements TaskService.UpdateTask
// A category re-link validates the new category before any mutation, then
// applies the paired decrement/increment and the task update in a single
// transaction, so a failure can never leave the counters half-adjusted.
// An explicit unlink takes the same transactional path with only the
// decrement of the old category.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	oldCategoryID := task.CategoryID
	var relink, unlink bool
	switch {
	case input.ClearCategory:
		unlink = oldCategoryID != nil
		task.CategoryID = nil
	case input.CategoryID != nil &&
		(oldCategoryID == nil || *input.CategoryID != *oldCategoryID):
		if err := s.checkCategoryRef(ctx, userID, *input.CategoryID); err != nil {
			return nil, err
		}
		relink = true
		task.CategoryID = input.CategoryID
	}

	if err := s.applyPatch(task, input); err != nil {
		return nil, err
	}
	task.UpdatedAt = s.timeFunc().UTC()

	if !relink && !unlink {
		if err := s.taskStore.Update(ctx, task); err != nil {
			return nil, err
		}
		return task, nil
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		categories := s.categoryStore.WithTx(tx)
		if oldCategoryID != nil {
			if err := categories.AdjustTaskCount(ctx, *oldCategoryID, -1); err != nil {
				return err
			}
		}
		if relink {
			if err := categories.AdjustTaskCount(ctx, *task.CategoryID, 1); err != nil {
				return err
			}
		}
		return s.taskStore.WithTx(tx).Update(ctx, task)
	})
	if err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", taskID)
		return nil, err
	}

	return task, nil
}

// UpdateTaskStatus implements TaskService.UpdateTaskStatus
func (s *TaskServiceImpl) UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status string) (*domain.Task, error) {
	newStatus, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.TransitionTo(newStatus, s.timeFunc()); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task status updated",
		"task_id", taskID,
		"status", newStatus)
	return task, nil
}

// UpdateTaskPriority implements TaskService.UpdateTaskPriority
func (s *TaskServiceImpl) UpdateTaskPriority(ctx context.Context, userID, taskID uuid.UUID, priority string) (*domain.Task, error) {
	newPriority, err := domain.ParseTaskPriority(priority)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Priority = newPriority
	task.UpdatedAt = s.timeFunc().UTC()

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if task.CategoryID == nil {
		return s.taskStore.Delete(ctx, userID, taskID)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).Delete(ctx, userID, taskID); err != nil {
			return err
		}
		return s.categoryStore.WithTx(tx).AdjustTaskCount(ctx, *task.CategoryID, -1)
	})
	if err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return err
	}

	return nil
}

// checkCategoryRef verifies that the category exists and belongs to the user.
// A missing or foreign category is a bad reference from the caller.
func (s *TaskServiceImpl) checkCategoryRef(ctx context.Context, userID, categoryID uuid.UUID) error {
	_, err := s.categoryStore.GetOwned(ctx, userID, categoryID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrInvalidCategoryRef
		}
		return err
	}
	return nil
}

// applyPatch copies the set fields of the patch onto the task, running the
// status change through the transition guard.
func (s *TaskServiceImpl) applyPatch(task *domain.Task, input UpdateTaskInput) error {
	if input.Title != nil {
		task.Title = *input.Title
		if err := task.Validate(); err != nil {
			return err
		}
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		priority, err := domain.ParseTaskPriority(*input.Priority)
		if err != nil {
			return err
		}
		task.Priority = priority
	}
	if input.Status != nil {
		status, err := domain.ParseTaskStatus(*input.Status)
		if err != nil {
			return err
		}
		if err := task.TransitionTo(status, s.timeFunc()); err != nil {
			return err
		}
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = input.EstimatedHours
	}
	return nil
}

// pageCount is ceil(total/limit); zero matches yield zero pages.
func pageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
