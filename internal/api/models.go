package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NullableUUID distinguishes an absent JSON field from an explicit null.
// Set is true whenever the field appeared in the payload; Value is nil for
// an explicit null. Absent means "leave unchanged" in a patch, while null
// means "clear the reference".
type NullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the
// field is present in the payload, which is what makes Set meaningful.
func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// RegisterRequest holds the payload for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest holds the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the client-facing view of a user. The password hash never
// leaves the service.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned from register and login with a fresh access token.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
}

// CreateTaskRequest holds the payload for creating a task.
type CreateTaskRequest struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"dueDate"`
	Category       *uuid.UUID `json:"category"`
	Tags           []string   `json:"tags"`
	EstimatedHours *float64   `json:"estimatedHours" validate:"omitempty,gte=0"`
}

// UpdateTaskRequest holds the payload for a partial task update. Nil fields
// are left unchanged; an explicit `"category": null` clears the category
// reference.
type UpdateTaskRequest struct {
	Title          *string      `json:"title" validate:"omitempty,max=200"`
	Description    *string      `json:"description"`
	Status         *string      `json:"status"`
	Priority       *string      `json:"priority"`
	DueDate        *time.Time   `json:"dueDate"`
	Category       NullableUUID `json:"category"`
	Tags           []string     `json:"tags"`
	EstimatedHours *float64     `json:"estimatedHours" validate:"omitempty,gte=0"`
}

// UpdateStatusRequest holds the payload for a status-only update.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePriorityRequest holds the payload for a priority-only update.
type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// CreateCategoryRequest holds the payload for creating a category.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}
