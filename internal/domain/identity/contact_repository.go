package identity

import "context"

// ContactRepository defines the interface for contact persistence.
// Every lookup and mutation is scoped by owner.
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	FindByIDForUser(ctx context.Context, userID, id int64) (*Contact, error)
	FindAllForUser(ctx context.Context, userID int64) ([]Contact, error)

	// DeleteForUser removes the listed contacts owned by userID and returns
	// how many rows were deleted
	DeleteForUser(ctx context.Context, userID int64, ids []int64) (int64, error)
}
