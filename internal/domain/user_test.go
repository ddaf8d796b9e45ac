package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %q", user.Email)
	}
	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Username and email are trimmed
	user, err = NewUser("  bob  ", "  bob@example.com  ", "secret1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Username != "bob" || user.Email != "bob@example.com" {
		t.Errorf("Expected trimmed fields, got %q / %q", user.Username, user.Email)
	}

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "a@example.com", "secret1", ErrEmptyUsername},
		{"username too long", strings.Repeat("x", 31), "a@example.com", "secret1", ErrUsernameTooLong},
		{"empty email", "alice", "", "secret1", ErrEmptyEmail},
		{"malformed email", "alice", "not-an-email", "secret1", ErrInvalidEmail},
		{"email missing domain dot", "alice", "a@example", "secret1", ErrInvalidEmail},
		{"empty password", "alice", "a@example.com", "", ErrEmptyPassword},
		{"password too short", "alice", "a@example.com", "ab1", ErrPasswordTooShort},
		{"password without digit", "alice", "a@example.com", "secrets", ErrPasswordNeedsDigit},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.username, tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("abc123"); err != nil {
		t.Errorf("Expected minimum valid password to pass, got %v", err)
	}
	if err := ValidatePassword("1abcde"); err != nil {
		t.Errorf("Expected password with leading digit to pass, got %v", err)
	}

	if err := ValidatePassword("abc12"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected ErrPasswordTooShort, got %v", err)
	}
	if err := ValidatePassword("abcdef"); !errors.Is(err, ErrPasswordNeedsDigit) {
		t.Errorf("Expected ErrPasswordNeedsDigit, got %v", err)
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the store has a hash and no plaintext password.
	user := &User{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected stored user to validate, got %v", err)
	}

	user.HashedPassword = ""
	if err := user.Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected ErrEmptyPassword, got %v", err)
	}
}
