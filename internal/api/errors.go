// Package api implements the HTTP handlers for the task tracking service.
package api

import (
	"errors"
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// validationErrors lists the domain-level validation failures that translate
// to a 400 response. Entity validation sentinels are flat errors, so they are
// enumerated here rather than matched by a common ancestor.
var validationErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrInvalidEmail,
	domain.ErrInvalidStatus,
	domain.ErrInvalidPriority,
	domain.ErrInvalidTransition,
	domain.ErrInvalidSortField,
	domain.ErrEmptyUsername,
	domain.ErrUsernameTooLong,
	domain.ErrEmptyEmail,
	domain.ErrEmptyPassword,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordNeedsDigit,
	domain.ErrTaskTitleEmpty,
	domain.ErrTaskTitleTooLong,
	domain.ErrCategoryNameEmpty,
	domain.ErrCategoryNameTooLong,
	service.ErrInvalidCategoryRef,
	store.ErrInvalidEntity,
}

// MapErrorToStatusCode translates service and domain errors into the
// appropriate HTTP status code. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotCategoryOwner):
		return http.StatusForbidden
	case store.IsNotFoundError(err):
		return http.StatusNotFound
	case store.IsDuplicateError(err):
		return http.StatusConflict
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the given error. For
// 5xx errors the underlying detail stays in the logs and the client gets a
// generic message.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already in use"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already in use"
	case errors.Is(err, store.ErrCategoryNameExists):
		return "A category with this name already exists"
	case errors.Is(err, service.ErrNotCategoryOwner):
		return "Not authorized to modify this category"
	case errors.Is(err, service.ErrInvalidCategoryRef):
		return "Category not found or invalid"
	case isValidationError(err):
		return err.Error()
	case MapErrorToStatusCode(err) == http.StatusUnauthorized:
		return err.Error()
	default:
		return "An internal error occurred"
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
