// Package service implements the task and category business operations on
// top of the store interfaces, including the cross-entity task-count
// invariant and the list query engine.
package service

import "errors"

// Service-level errors
var (
	// ErrInvalidCategoryRef is returned when a task create or re-link names a
	// category that does not exist or belongs to a different user. This is a
	// bad reference supplied by the caller, not a missing resource, so it
	// maps to a 400 rather than a 404.
	ErrInvalidCategoryRef = errors.New("category not found or invalid")

	// ErrNotCategoryOwner is returned when a user attempts to delete a
	// category owned by someone else.
	ErrNotCategoryOwner = errors.New("not authorized to modify this category")
)
