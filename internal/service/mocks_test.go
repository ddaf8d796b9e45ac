package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// opLog records store mutations in order, so tests can assert that the
// counter adjustments pair up with the task writes they belong to.
type opLog struct {
	ops []string
}

func (l *opLog) record(format string, args ...any) {
	l.ops = append(l.ops, fmt.Sprintf(format, args...))
}

// mockTaskStore is a map-backed TaskStore for service tests.
type mockTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
	log   *opLog

	createErr error
	updateErr error
	deleteErr error

	listResult  []*store.TaskWithCategory
	countResult int
	statsResult map[domain.TaskStatus]int
	listParams  *store.TaskListParams
}

func newMockTaskStore(log *opLog) *mockTaskStore {
	return &mockTaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
		log:   log,
	}
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *task
	m.tasks[task.ID] = &copied
	m.log.record("task.create %s", task.ID)
	return nil
}

func (m *mockTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskStore) GetWithCategory(ctx context.Context, userID, id uuid.UUID) (*store.TaskWithCategory, error) {
	task, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &store.TaskWithCategory{Task: *task}, nil
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied
	m.log.record("task.update %s", task.ID)
	return nil
}

func (m *mockTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	m.log.record("task.delete %s", id)
	return nil
}

func (m *mockTaskStore) List(ctx context.Context, params store.TaskListParams) ([]*store.TaskWithCategory, error) {
	m.listParams = &params
	return m.listResult, nil
}

func (m *mockTaskStore) Count(ctx context.Context, params store.TaskListParams) (int, error) {
	return m.countResult, nil
}

func (m *mockTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error) {
	if m.statsResult == nil {
		return map[domain.TaskStatus]int{}, nil
	}
	return m.statsResult, nil
}

func (m *mockTaskStore) ClearCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var cleared int64
	for _, task := range m.tasks {
		if task.CategoryID != nil && *task.CategoryID == categoryID {
			task.CategoryID = nil
			cleared++
		}
	}
	m.log.record("task.clearCategory %s", categoryID)
	return cleared, nil
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// mockCategoryStore is a map-backed CategoryStore for service tests.
type mockCategoryStore struct {
	categories map[uuid.UUID]*domain.Category
	log        *opLog

	adjustErr error
	deleteErr error
}

func newMockCategoryStore(log *opLog) *mockCategoryStore {
	return &mockCategoryStore{
		categories: make(map[uuid.UUID]*domain.Category),
		log:        log,
	}
}

func (m *mockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	copied := *category
	m.categories[category.ID] = &copied
	m.log.record("category.create %s", category.ID)
	return nil
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryStore) GetOwned(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, store.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, category := range m.categories {
		if category.UserID == userID {
			copied := *category
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.categories[id]; !ok {
		return store.ErrCategoryNotFound
	}
	delete(m.categories, id)
	m.log.record("category.delete %s", id)
	return nil
}

func (m *mockCategoryStore) AdjustTaskCount(ctx context.Context, id uuid.UUID, delta int) error {
	if m.adjustErr != nil {
		return m.adjustErr
	}
	category, ok := m.categories[id]
	if !ok {
		return store.ErrCategoryNotFound
	}
	if category.TaskCount+delta < 0 {
		return store.ErrNegativeCounter
	}
	category.TaskCount += delta
	m.log.record("category.adjust %s %+d", id, delta)
	return nil
}

func (m *mockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}
