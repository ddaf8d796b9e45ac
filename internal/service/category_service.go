package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// CategoryService provides category operations scoped to a user.
type CategoryService interface {
	// ListCategories returns all categories owned by the user.
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)

	// CreateCategory creates a new category for the user. An empty color
	// falls back to the default. Returns store.ErrCategoryNameExists if the
	// user already has a category with the same name.
	CreateCategory(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Category, error)

	// DeleteCategory removes a category after clearing the category
	// reference on every task that pointed to it. Tasks themselves are never
	// deleted. Returns store.ErrCategoryNotFound if the category does not
	// exist and ErrNotCategoryOwner if it belongs to a different user.
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

// CategoryServiceImpl implements the CategoryService interface.
type CategoryServiceImpl struct {
	categoryStore store.CategoryStore
	taskStore     store.TaskStore
	db            *sql.DB
	logger        *slog.Logger
}

// Ensure CategoryServiceImpl implements CategoryService interface
var _ CategoryService = (*CategoryServiceImpl)(nil)

// NewCategoryService creates a new CategoryService.
func NewCategoryService(
	categoryStore store.CategoryStore,
	taskStore store.TaskStore,
	db *sql.DB,
	logger *slog.Logger,
) (*CategoryServiceImpl, error) {
	if categoryStore == nil {
		return nil, fmt.Errorf("categoryStore cannot be nil")
	}
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CategoryServiceImpl{
		categoryStore: categoryStore,
		taskStore:     taskStore,
		db:            db,
		logger:        logger.With("component", "category_service"),
	}, nil
}

// ListCategories implements CategoryService.ListCategories
func (s *CategoryServiceImpl) ListCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	categories, err := s.categoryStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list categories",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory implements CategoryService.CreateCategory
func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Category, error) {
	category, err := domain.NewCategory(userID, name, color)
	if err != nil {
		return nil, err
	}

	if err := s.categoryStore.Create(ctx, category); err != nil {
		if !store.IsDuplicateError(err) {
			s.logger.Error("failed to create category",
				"error", err,
				"user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"user_id", userID)
	return category, nil
}

// DeleteCategory implements CategoryService.DeleteCategory
// The ownership check distinguishes a missing category (not found) from one
// owned by another user (forbidden). The cascade and the delete run in one
// transaction so no task is ever left pointing at a removed category.
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	category, err := s.categoryStore.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}

	if category.UserID != userID {
		s.logger.Warn("cross-user category delete rejected",
			"category_id", categoryID,
			"owner_id", category.UserID,
			"user_id", userID)
		return ErrNotCategoryOwner
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cleared, err := s.taskStore.WithTx(tx).ClearCategory(ctx, categoryID)
		if err != nil {
			return err
		}

		if err := s.categoryStore.WithTx(tx).Delete(ctx, categoryID); err != nil {
			return err
		}

		s.logger.Info("category deleted",
			"category_id", categoryID,
			"user_id", userID,
			"tasks_cleared", cleared)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete category",
			"error", err,
			"category_id", categoryID)
		return err
	}

	return nil
}
