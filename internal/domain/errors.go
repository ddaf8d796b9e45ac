// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidStatus is returned when a task status is not one of the
	// recognized status values.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a task priority is not one of the
	// recognized priority values.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidTransition is returned when a status change is not permitted
	// by the task lifecycle rules.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidSortField is returned when a list request names a sort field
	// that is not allowed for sorting.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
