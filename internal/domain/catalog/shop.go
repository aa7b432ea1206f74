package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
)

// Shop is a partner storefront owned by a user of type shop.
// Inactive shops are hidden from the catalog and cannot receive new cart lines.
type Shop struct {
	shared.BaseAggregateRoot
	Name   string
	URL    string
	UserID *int64
	State  bool
}

// NewShop creates an active shop owned by userID
func NewShop(name string, userID int64) (*Shop, error) {
	if err := validateShopName(name); err != nil {
		return nil, err
	}
	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		UserID:            &userID,
		State:             true,
	}, nil
}

// IsActive reports whether the shop accepts orders
func (s *Shop) IsActive() bool {
	return s.State
}

// IsOwnedBy reports whether userID owns the shop
func (s *Shop) IsOwnedBy(userID int64) bool {
	return s.UserID != nil && *s.UserID == userID
}

// SetState switches order acceptance on or off. A ShopStateChanged event is
// recorded only when the state actually changes.
func (s *Shop) SetState(active bool) {
	if s.State == active {
		return
	}
	s.State = active
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewShopStateChangedEvent(s))
}

func validateShopName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("shop name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 50 {
		return shared.NewValidationError("shop name cannot exceed 50 characters")
	}
	return nil
}
