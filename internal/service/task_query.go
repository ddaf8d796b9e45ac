package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskListQuery is the raw, untrusted filter/sort/pagination request as it
// arrives from the transport layer. normalize turns it into validated store
// params; nothing here reaches the database uninterpreted.
type TaskListQuery struct {
	// Status holds zero or more statuses, comma-separated; membership test.
	Status string
	// Priority is an exact-match filter.
	Priority string
	// Category is an exact category ID match.
	Category string
	// DueAfter and DueBefore are inclusive due-date bounds, RFC 3339 or
	// YYYY-MM-DD.
	DueAfter  string
	DueBefore string
	// Search is a free-text query against title and description.
	Search string
	// SortBy is "field" or "field:direction", direction asc or desc
	// (default asc). The field must be whitelisted.
	SortBy string
	// Page and Limit are coerced to positive integers, defaulting when
	// absent or non-numeric.
	Page  string
	Limit string
}

func (q TaskListQuery) normalize(userID uuid.UUID) (store.TaskListParams, error) {
	params := store.TaskListParams{
		UserID: userID,
		Search: strings.TrimSpace(q.Search),
		Page:   parsePositiveInt(q.Page, store.DefaultPage),
		Limit:  parsePositiveInt(q.Limit, store.DefaultLimit),
	}

	if q.Status != "" {
		for _, raw := range strings.Split(q.Status, ",") {
			status, err := domain.ParseTaskStatus(strings.TrimSpace(raw))
			if err != nil {
				return params, err
			}
			params.Statuses = append(params.Statuses, status)
		}
	}

	if q.Priority != "" {
		priority, err := domain.ParseTaskPriority(q.Priority)
		if err != nil {
			return params, err
		}
		params.Priority = &priority
	}

	if q.Category != "" {
		categoryID, err := uuid.Parse(q.Category)
		if err != nil {
			return params, fmt.Errorf("%w: category %q", domain.ErrInvalidID, q.Category)
		}
		params.CategoryID = &categoryID
	}

	if q.DueAfter != "" {
		t, err := parseDueDate(q.DueAfter)
		if err != nil {
			return params, err
		}
		params.DueAfter = &t
	}
	if q.DueBefore != "" {
		t, err := parseDueDate(q.DueBefore)
		if err != nil {
			return params, err
		}
		params.DueBefore = &t
	}

	if q.SortBy != "" {
		field, direction, _ := strings.Cut(q.SortBy, ":")
		if !store.IsSortableTaskField(field) {
			return params, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, field)
		}
		params.SortField = field
		params.SortDesc = direction == "desc"
	}

	return params, nil
}

// parsePositiveInt coerces raw to a positive integer, falling back to def
// when raw is absent, non-numeric, or non-positive.
func parsePositiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// parseDueDate accepts RFC 3339 timestamps or bare dates.
func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, raw)
}
