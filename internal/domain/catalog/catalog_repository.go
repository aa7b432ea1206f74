package catalog

import "context"

// ImportResult summarizes a completed catalog replacement
type ImportResult struct {
	ShopID     int64  `json:"shop_id"`
	ShopName   string `json:"shop_name"`
	Categories int    `json:"categories"`
	Offers     int    `json:"offers"`
	Parameters int    `json:"parameters"`
}

// OfferFilter narrows offer listings; nil fields are not applied
type OfferFilter struct {
	ShopID     *int64
	CategoryID *int64
}

// CatalogRepository defines catalog persistence
type CatalogRepository interface {
	// ReplaceShopCatalog upserts the feed's shop and categories and replaces
	// every offer of that shop in a single transaction. sourceURL is recorded
	// on the shop.
	ReplaceShopCatalog(ctx context.Context, userID int64, sourceURL string, feed *Feed) (*ImportResult, error)

	// ListActiveShops returns shops with state=true ordered by name
	ListActiveShops(ctx context.Context) ([]Shop, error)

	// ListCategories returns all categories ordered by name
	ListCategories(ctx context.Context) ([]Category, error)

	// ListOffers returns offers of active shops with product, category and
	// parameters loaded
	ListOffers(ctx context.Context, filter OfferFilter) ([]ProductOffer, error)

	// FindOfferByID returns one offer with its shop loaded
	FindOfferByID(ctx context.Context, id int64) (*ProductOffer, error)
}

// ShopRepository defines partner shop persistence
type ShopRepository interface {
	// FindByUserID returns the shop owned by userID
	FindByUserID(ctx context.Context, userID int64) (*Shop, error)

	// UpdateState persists the shop's state flag
	UpdateState(ctx context.Context, shop *Shop) error
}
