package user

import "context"

// Repository defines the interface for user data operations
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by internal ID
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByUsername retrieves a user by login name
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Exists checks if a user exists by internal ID
	Exists(ctx context.Context, id uint) (bool, error)
}
