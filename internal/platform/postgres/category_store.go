package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

const categoryColumns = "id, user_id, name, color, task_count, created_at, updated_at"

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// Create implements store.CategoryStore.Create
// Unique violations on (user_id, name) are translated into
// store.ErrCategoryNameExists.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		INSERT INTO categories (id, user_id, name, color, task_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		category.TaskCount,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolationCode:
			log.Warn("duplicate category name",
				slog.String("name", category.Name),
				slog.String("user_id", category.UserID.String()))
			return store.ErrCategoryNameExists
		case pgForeignKeyViolationCode:
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, category.UserID)
		}

		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("user_id", category.UserID.String()))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return s.scanCategory(ctx, query, id)
}

// GetOwned implements store.CategoryStore.GetOwned
func (s *PostgresCategoryStore) GetOwned(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return s.scanCategory(ctx, query, id, userID)
}

// ListByUser implements store.CategoryStore.ListByUser
func (s *PostgresCategoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := []*domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Color, &c.TaskCount, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	return categories, nil
}

// Delete implements store.CategoryStore.Delete
// Returns store.ErrCategoryNotFound if no row was removed.
func (s *PostgresCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrCategoryNotFound
	}

	log.Info("category deleted", slog.String("category_id", id.String()))
	return nil
}

// AdjustTaskCount implements store.CategoryStore.AdjustTaskCount
// The adjustment is a single UPDATE statement so concurrent task mutations
// against the same category serialize at the row and cannot lose updates.
// The task_count >= 0 CHECK constraint turns an unpaired decrement into
// store.ErrNegativeCounter instead of silently corrupting the count.
func (s *PostgresCategoryStore) AdjustTaskCount(ctx context.Context, id uuid.UUID, delta int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE categories
		SET task_count = task_count + $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, delta, time.Now().UTC(), id)
	if err != nil {
		if pgErrorCode(err) == pgCheckViolationCode {
			log.Error("task count adjustment would go negative",
				slog.String("category_id", id.String()),
				slog.Int("delta", delta))
			return store.ErrNegativeCounter
		}
		log.Error("failed to adjust task count",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()),
			slog.Int("delta", delta))
		return fmt.Errorf("failed to adjust task count: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrCategoryNotFound
	}

	return nil
}

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresCategoryStore) scanCategory(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var c domain.Category
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.TaskCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to query category", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &c, nil
}
