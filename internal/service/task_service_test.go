package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// taskServiceFixture bundles the service under test with its mocked
// collaborators.
type taskServiceFixture struct {
	svc        *TaskServiceImpl
	tasks      *mockTaskStore
	categories *mockCategoryStore
	dbMock     sqlmock.Sqlmock
	log        *opLog
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := &opLog{}
	tasks := newMockTaskStore(log)
	categories := newMockCategoryStore(log)

	svc, err := NewTaskService(tasks, categories, db, nil)
	require.NoError(t, err)

	return &taskServiceFixture{
		svc:        svc,
		tasks:      tasks,
		categories: categories,
		dbMock:     dbMock,
		log:        log,
	}
}

// seedCategory registers a category owned by userID with the given count.
func (f *taskServiceFixture) seedCategory(t *testing.T, userID uuid.UUID, count int) *domain.Category {
	t.Helper()
	category, err := domain.NewCategory(userID, "Work "+uuid.NewString()[:8], "")
	require.NoError(t, err)
	category.TaskCount = count
	f.categories.categories[category.ID] = category
	return category
}

// seedTask registers a task owned by userID, optionally linked to a category.
func (f *taskServiceFixture) seedTask(t *testing.T, userID uuid.UUID, categoryID *uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, "Seeded task")
	require.NoError(t, err)
	task.CategoryID = categoryID
	f.tasks.tasks[task.ID] = task
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("without category skips the counter", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.CreateTask(ctx, userID, CreateTaskInput{Title: "Plain task"})
		require.NoError(t, err)

		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
		assert.Equal(t, []string{"task.create " + task.ID.String()}, f.log.ops)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("with category increments the counter in one transaction", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		category := f.seedCategory(t, userID, 0)

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		task, err := f.svc.CreateTask(ctx, userID, CreateTaskInput{
			Title:      "Linked task",
			CategoryID: &category.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, &category.ID, task.CategoryID)
		assert.Equal(t, 1, f.categories.categories[category.ID].TaskCount)
		assert.Equal(t, []string{
			"task.create " + task.ID.String(),
			"category.adjust " + category.ID.String() + " +1",
		}, f.log.ops)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("missing category performs no writes", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		missing := uuid.New()

		_, err := f.svc.CreateTask(ctx, userID, CreateTaskInput{
			Title:      "Orphan",
			CategoryID: &missing,
		})
		assert.ErrorIs(t, err, ErrInvalidCategoryRef)
		assert.Empty(t, f.log.ops)
	})

	t.Run("another user's category is rejected", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		foreign := f.seedCategory(t, uuid.New(), 0)

		_, err := f.svc.CreateTask(ctx, userID, CreateTaskInput{
			Title:      "Trespasser",
			CategoryID: &foreign.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidCategoryRef)
		assert.Empty(t, f.log.ops)
		assert.Equal(t, 0, f.categories.categories[foreign.ID].TaskCount)
	})

	t.Run("creation with completed status does not stamp CompletedAt", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.CreateTask(ctx, userID, CreateTaskInput{
			Title:  "Already done",
			Status: "completed",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
		assert.Nil(t, task.CompletedAt, "only a transition stamps the completion time")
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		_, err := f.svc.CreateTask(ctx, userID, CreateTaskInput{
			Title:  "Bad status",
			Status: "done",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		assert.Empty(t, f.log.ops)
	})

	t.Run("invalid priority is rejected", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		_, err := f.svc.CreateTask(ctx, userID, CreateTaskInput{
			Title:    "Bad priority",
			Priority: "urgent",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)
		assert.Empty(t, f.log.ops)
	})
}

func TestUpdateTaskRelink(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("moving between categories pairs decrement and increment", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		oldCategory := f.seedCategory(t, userID, 1)
		newCategory := f.seedCategory(t, userID, 0)
		task := f.seedTask(t, userID, &oldCategory.ID)

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		updated, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			CategoryID: &newCategory.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, &newCategory.ID, updated.CategoryID)
		assert.Equal(t, 0, f.categories.categories[oldCategory.ID].TaskCount)
		assert.Equal(t, 1, f.categories.categories[newCategory.ID].TaskCount)
		assert.Equal(t, []string{
			"category.adjust " + oldCategory.ID.String() + " -1",
			"category.adjust " + newCategory.ID.String() + " +1",
			"task.update " + task.ID.String(),
		}, f.log.ops)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("linking a previously uncategorized task only increments", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		category := f.seedCategory(t, userID, 0)
		task := f.seedTask(t, userID, nil)

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		_, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			CategoryID: &category.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, f.categories.categories[category.ID].TaskCount)
		assert.Equal(t, []string{
			"category.adjust " + category.ID.String() + " +1",
			"task.update " + task.ID.String(),
		}, f.log.ops)
	})

	t.Run("invalid new category leaves everything untouched", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		oldCategory := f.seedCategory(t, userID, 1)
		task := f.seedTask(t, userID, &oldCategory.ID)
		missing := uuid.New()

		_, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			CategoryID: &missing,
		})
		assert.ErrorIs(t, err, ErrInvalidCategoryRef)
		assert.Equal(t, 1, f.categories.categories[oldCategory.ID].TaskCount)
		assert.Equal(t, &oldCategory.ID, f.tasks.tasks[task.ID].CategoryID)
		assert.Empty(t, f.log.ops)
	})

	t.Run("same category is not a relink", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		category := f.seedCategory(t, userID, 1)
		task := f.seedTask(t, userID, &category.ID)

		title := "Renamed"
		_, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			Title:      &title,
			CategoryID: &category.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, f.categories.categories[category.ID].TaskCount)
		assert.Equal(t, []string{"task.update " + task.ID.String()}, f.log.ops)
	})
}

func TestUpdateTaskUnlink(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("clearing the category decrements the old counter", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		category := f.seedCategory(t, userID, 1)
		task := f.seedTask(t, userID, &category.ID)

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		updated, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			ClearCategory: true,
		})
		require.NoError(t, err)

		assert.Nil(t, updated.CategoryID)
		assert.Nil(t, f.tasks.tasks[task.ID].CategoryID)
		assert.Equal(t, 0, f.categories.categories[category.ID].TaskCount)
		assert.Equal(t, []string{
			"category.adjust " + category.ID.String() + " -1",
			"task.update " + task.ID.String(),
		}, f.log.ops)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("clearing an uncategorized task touches no counter", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		task := f.seedTask(t, userID, nil)

		updated, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			ClearCategory: true,
		})
		require.NoError(t, err)

		assert.Nil(t, updated.CategoryID)
		assert.Equal(t, []string{"task.update " + task.ID.String()}, f.log.ops)
	})
}

func TestUpdateTaskPatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("nil fields are left unchanged", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		task := f.seedTask(t, userID, nil)
		task.Description = "Original description"
		hours := 2.5
		task.EstimatedHours = &hours

		title := "New title"
		updated, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			Title: &title,
		})
		require.NoError(t, err)

		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "Original description", updated.Description)
		assert.Equal(t, &hours, updated.EstimatedHours)
	})

	t.Run("archived task cannot move to in-progress", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		task := f.seedTask(t, userID, nil)
		task.Status = domain.TaskStatusArchived

		status := "in-progress"
		_, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{
			Status: &status,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Empty(t, f.log.ops)
	})

	t.Run("unknown task returns not found", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		title := "nope"
		_, err := f.svc.UpdateTask(ctx, userID, uuid.New(), UpdateTaskInput{Title: &title})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("another user's task returns not found", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		task := f.seedTask(t, uuid.New(), nil)

		title := "hijack"
		_, err := f.svc.UpdateTask(ctx, userID, task.ID, UpdateTaskInput{Title: &title})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("completing stamps CompletedAt", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		f.svc.timeFunc = func() time.Time { return now }
		task := f.seedTask(t, userID, nil)

		updated, err := f.svc.UpdateTaskStatus(ctx, userID, task.ID, "completed")
		require.NoError(t, err)

		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		assert.True(t, updated.CompletedAt.Equal(now))
	})

	t.Run("invalid status is rejected before any read", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		_, err := f.svc.UpdateTaskStatus(ctx, userID, uuid.New(), "done")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("archived to in-progress is rejected", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		task := f.seedTask(t, userID, nil)
		task.Status = domain.TaskStatusArchived

		_, err := f.svc.UpdateTaskStatus(ctx, userID, task.ID, "in-progress")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestUpdateTaskPriority(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	f := newTaskServiceFixture(t)
	task := f.seedTask(t, userID, nil)

	updated, err := f.svc.UpdateTaskPriority(ctx, userID, task.ID, "high")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)

	_, err = f.svc.UpdateTaskPriority(ctx, userID, task.ID, "urgent")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("categorized delete decrements in one transaction", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		category := f.seedCategory(t, userID, 2)
		task := f.seedTask(t, userID, &category.ID)

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		require.NoError(t, f.svc.DeleteTask(ctx, userID, task.ID))

		assert.Equal(t, 1, f.categories.categories[category.ID].TaskCount)
		assert.Equal(t, []string{
			"task.delete " + task.ID.String(),
			"category.adjust " + category.ID.String() + " -1",
		}, f.log.ops)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("uncategorized delete touches no counter", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		task := f.seedTask(t, userID, nil)

		require.NoError(t, f.svc.DeleteTask(ctx, userID, task.ID))
		assert.Equal(t, []string{"task.delete " + task.ID.String()}, f.log.ops)
	})

	t.Run("unknown task returns not found", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		err := f.svc.DeleteTask(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestListTasksPagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	f := newTaskServiceFixture(t)
	f.tasks.countResult = 25
	f.tasks.statsResult = map[domain.TaskStatus]int{
		domain.TaskStatusTodo:      20,
		domain.TaskStatusCompleted: 5,
	}
	for i := 0; i < 5; i++ {
		task, err := domain.NewTask(userID, "Task")
		require.NoError(t, err)
		f.tasks.listResult = append(f.tasks.listResult, &store.TaskWithCategory{Task: *task})
	}

	result, err := f.svc.ListTasks(ctx, userID, TaskListQuery{Page: "3", Limit: "10"})
	require.NoError(t, err)

	assert.Len(t, result.Tasks, 5)
	assert.Equal(t, 25, result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.Page)
	assert.Equal(t, 10, result.Pagination.Limit)
	assert.Equal(t, 3, result.Pagination.Pages)
	assert.Equal(t, 20, result.Stats[domain.TaskStatusTodo])

	require.NotNil(t, f.tasks.listParams)
	assert.Equal(t, userID, f.tasks.listParams.UserID)
	assert.Equal(t, 20, f.tasks.listParams.Offset())
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, pageCount(tc.total, tc.limit),
			"pageCount(%d, %d)", tc.total, tc.limit)
	}
}
