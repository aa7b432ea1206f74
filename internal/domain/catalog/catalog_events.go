package catalog

import (
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeShop = "Shop"

// Event type constants
const (
	EventTypeCatalogImported  = "CatalogImported"
	EventTypeShopStateChanged = "ShopStateChanged"
)

// CatalogImportedEvent is published after a shop's offers were replaced
type CatalogImportedEvent struct {
	shared.BaseDomainEvent
	ShopID     int64  `json:"shop_id"`
	ShopName   string `json:"shop_name"`
	UserID     int64  `json:"user_id"`
	Categories int    `json:"categories"`
	Offers     int    `json:"offers"`
}

// NewCatalogImportedEvent creates a new CatalogImportedEvent
func NewCatalogImportedEvent(userID int64, result *ImportResult) *CatalogImportedEvent {
	return &CatalogImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogImported, AggregateTypeShop, result.ShopID),
		ShopID:          result.ShopID,
		ShopName:        result.ShopName,
		UserID:          userID,
		Categories:      result.Categories,
		Offers:          result.Offers,
	}
}

// ShopStateChangedEvent is published when a shop starts or stops accepting orders
type ShopStateChangedEvent struct {
	shared.BaseDomainEvent
	ShopID int64 `json:"shop_id"`
	State  bool  `json:"state"`
}

// NewShopStateChangedEvent creates a new ShopStateChangedEvent
func NewShopStateChangedEvent(shop *Shop) *ShopStateChangedEvent {
	return &ShopStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopStateChanged, AggregateTypeShop, shop.ID),
		ShopID:          shop.ID,
		State:           shop.State,
	}
}
