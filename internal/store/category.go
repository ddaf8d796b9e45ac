package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence,
// including the atomic counter capability the task-count invariant rests on.
type CategoryStore interface {
	// Create saves a new category to the store.
	// Returns ErrCategoryNameExists if the owning user already has a category
	// with the same name, or validation errors from the domain Category.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID regardless of owner.
	// Returns ErrCategoryNotFound if the category does not exist.
	// Callers that need an ownership check (403 vs 404) compare UserID
	// themselves; use GetOwned for plain user-scoped reads.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetOwned retrieves a category by ID scoped to the owning user.
	// Returns ErrCategoryNotFound if the category does not exist or belongs
	// to a different user.
	GetOwned(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error)

	// ListByUser returns all categories owned by the given user, ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)

	// Delete removes a category by its ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	// Clearing task references is the caller's responsibility (see
	// TaskStore.ClearCategory); both steps belong in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustTaskCount applies a single atomic increment (delta may be
	// negative) to the category's task counter. This must be one conditional
	// UPDATE at the database, not a read-modify-write, so concurrent task
	// mutations against the same category cannot lose updates.
	// Returns ErrCategoryNotFound if the category does not exist and
	// ErrNegativeCounter if the adjustment would drive the count below zero.
	AdjustTaskCount(ctx context.Context, id uuid.UUID, delta int) error

	// WithTx returns a new CategoryStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CategoryStore
}
