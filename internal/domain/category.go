package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is assigned when a category is created without an
// explicit color.
const DefaultCategoryColor = "#6366f1"

// Category-specific validation errors
var (
	ErrCategoryIDEmpty     = errors.New("category ID cannot be empty")
	ErrCategoryUserIDEmpty = errors.New("category user ID cannot be empty")
	ErrCategoryNameEmpty   = errors.New("category name cannot be empty")
	ErrCategoryNameTooLong = errors.New("category name cannot be more than 50 characters")
	ErrNegativeTaskCount   = errors.New("category task count cannot be negative")
)

// Category is a user-owned label grouping tasks. TaskCount is derived state:
// it must always equal the number of tasks currently referencing the category.
// The count is maintained by the task service through atomic increments at the
// persistence layer, never by read-modify-write in application code.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	TaskCount int       `json:"taskCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCategory creates a new Category owned by the given user.
// An empty color falls back to DefaultCategoryColor.
// Returns an error if validation fails.
func NewCategory(userID uuid.UUID, name, color string) (*Category, error) {
	if color == "" {
		color = DefaultCategoryColor
	}

	category := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Color:     color,
		TaskCount: 0,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
// Returns an error if any field fails validation.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCategoryUserIDEmpty
	}

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}
	if len(c.Name) > 50 {
		return ErrCategoryNameTooLong
	}

	// A negative count means a decrement fired without a paired increment;
	// that is a bug, not a reachable state.
	if c.TaskCount < 0 {
		return ErrNegativeTaskCount
	}

	return nil
}
