package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user and assigns its ID
	Create(ctx context.Context, user *User) error

	// Update saves profile and status fields
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)
}
