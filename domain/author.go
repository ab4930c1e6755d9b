package domain

import (
	"context"
)

// User represents a user entity owned by the identity subsystem.
// This service only reads it.
type User struct {
	ID       string `json:"_id"`      // Unique identifier
	Name     string `json:"name"`     // Display name
	Username string `json:"username"` // Login username
	Email    string `json:"email"`
}

// UserRepository defines the read contract on the user directory.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByIDs retrieves the users that exist among ids. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
}
