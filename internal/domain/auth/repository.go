package auth

import (
	"context"

	"santiye/internal/core/id"
)

// Repository defines persistence for users.
type Repository interface {
	// Create inserts a new user. Duplicate email yields a Duplicate error.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user. NotFound when absent.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves a user by email. NotFound when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update overwrites mutable user fields.
	Update(ctx context.Context, user *User) error

	// List returns all users ordered by full name.
	List(ctx context.Context) ([]User, error)
}
