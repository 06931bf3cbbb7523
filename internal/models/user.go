package models

import (
	"strings"
	"time"
)

// User represents a registered user account.
//
// Users are created by the registration collaborator; the ledger never sees
// credentials. A user is never deleted while events, splits or transactions
// still reference them.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique, non-empty handle other users search for.
	Username string

	// Email is the user's email address (unique).
	Email string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile edit.
	UpdatedAt int64
}

// NewUser creates a user with normalized fields and fresh timestamps.
// The ID is assigned by the store.
func NewUser(username, email string) *User {
	now := time.Now().Unix()
	return &User{
		Username:  strings.TrimSpace(username),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
