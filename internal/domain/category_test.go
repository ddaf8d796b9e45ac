package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewCategory(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	category, err := NewCategory(userID, "Work", "#ff0000")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if category.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, category.UserID)
	}
	if category.Color != "#ff0000" {
		t.Errorf("Expected color #ff0000, got %q", category.Color)
	}
	if category.TaskCount != 0 {
		t.Errorf("Expected task count 0, got %d", category.TaskCount)
	}

	// Empty color falls back to the default
	category, err = NewCategory(userID, "Work", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if category.Color != DefaultCategoryColor {
		t.Errorf("Expected default color %q, got %q", DefaultCategoryColor, category.Color)
	}

	// Invalid owner
	_, err = NewCategory(uuid.Nil, "Work", "")
	if !errors.Is(err, ErrCategoryUserIDEmpty) {
		t.Errorf("Expected error %v, got %v", ErrCategoryUserIDEmpty, err)
	}

	// Empty name
	_, err = NewCategory(userID, "  ", "")
	if !errors.Is(err, ErrCategoryNameEmpty) {
		t.Errorf("Expected error %v, got %v", ErrCategoryNameEmpty, err)
	}

	// Name over 50 characters
	_, err = NewCategory(userID, strings.Repeat("x", 51), "")
	if !errors.Is(err, ErrCategoryNameTooLong) {
		t.Errorf("Expected error %v, got %v", ErrCategoryNameTooLong, err)
	}
}

func TestCategoryValidateTaskCount(t *testing.T) {
	t.Parallel()

	category := &Category{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Name:      "Work",
		Color:     DefaultCategoryColor,
		TaskCount: 3,
	}
	if err := category.Validate(); err != nil {
		t.Errorf("Expected valid category, got %v", err)
	}

	category.TaskCount = -1
	if err := category.Validate(); !errors.Is(err, ErrNegativeTaskCount) {
		t.Errorf("Expected ErrNegativeTaskCount, got %v", err)
	}
}
