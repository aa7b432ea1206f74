package trade

import "context"

// OrderRepository defines cart and order persistence. Cart-scoped methods
// take the cart ID so that ownership is part of every predicate.
type OrderRepository interface {
	// GetOrCreateCart returns the user's cart, creating it when absent.
	// Concurrent callers converge on the same row.
	GetOrCreateCart(ctx context.Context, userID int64) (*Order, error)

	// FindCart returns the user's cart with lines, offers and total loaded.
	// Returns shared.ErrNotFound when the user has no cart.
	FindCart(ctx context.Context, userID int64) (*Order, error)

	// AddLine inserts a line, or increases the quantity of the existing line
	// for the same offer. Returns ErrCartClosed when cartID is no longer in
	// state cart.
	AddLine(ctx context.Context, cartID, offerID int64, quantity int) error

	// UpdateLineQuantity sets the quantity of a line in the cart and reports
	// how many rows matched. Lines of a placed order never match.
	UpdateLineQuantity(ctx context.Context, cartID, lineID int64, quantity int) (int64, error)

	// DeleteLines removes the listed lines from the cart. Lines of a placed
	// order never match.
	DeleteLines(ctx context.Context, cartID int64, lineIDs []int64) (int64, error)

	// PlaceCart turns the user's cart into a new order with the given contact.
	// The update only matches when the order is the user's non-empty cart and
	// the contact is owned by the same user; zero rows is not an error.
	PlaceCart(ctx context.Context, userID, orderID, contactID int64) (int64, error)

	// ListForUser returns the user's placed orders, newest first
	ListForUser(ctx context.Context, userID int64) ([]Order, error)

	// ListForShopOwner returns placed orders containing offers of shops owned
	// by userID. Only those lines are loaded and totalled.
	ListForShopOwner(ctx context.Context, userID int64) ([]Order, error)

	// FindForShopOwner returns one placed order touching the owner's offers
	FindForShopOwner(ctx context.Context, ownerID, orderID int64) (*Order, error)

	// UpdateState moves an order from one state to another and reports how
	// many rows matched the expected current state
	UpdateState(ctx context.Context, orderID int64, from, to OrderState) (int64, error)
}
