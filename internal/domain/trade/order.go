package trade

import (
	"fmt"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderState represents the lifecycle state of an order
type OrderState string

const (
	OrderStateCart      OrderState = "cart"
	OrderStateNew       OrderState = "new"
	OrderStateConfirmed OrderState = "confirmed"
	OrderStateAssembled OrderState = "assembled"
	OrderStateSent      OrderState = "sent"
	OrderStateDelivered OrderState = "delivered"
	OrderStateCanceled  OrderState = "canceled"
)

// ErrCartClosed is returned when a line is added to an order that has left
// the cart state, for example because it was placed concurrently
var ErrCartClosed = shared.NewDomainError(shared.ErrInvalidState.Code, "Cart has already been placed")

// IsValid checks if the state is a known OrderState
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateCart, OrderStateNew, OrderStateConfirmed, OrderStateAssembled,
		OrderStateSent, OrderStateDelivered, OrderStateCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderState
func (s OrderState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s OrderState) IsTerminal() bool {
	return s == OrderStateDelivered || s == OrderStateCanceled
}

// CanTransitionTo checks if a transition to the target state is allowed.
// cart -> new happens only through placement.
func (s OrderState) CanTransitionTo(target OrderState) bool {
	switch s {
	case OrderStateCart:
		return target == OrderStateNew
	case OrderStateNew:
		return target == OrderStateConfirmed || target == OrderStateCanceled
	case OrderStateConfirmed:
		return target == OrderStateAssembled || target == OrderStateCanceled
	case OrderStateAssembled:
		return target == OrderStateSent || target == OrderStateCanceled
	case OrderStateSent:
		return target == OrderStateDelivered
	case OrderStateDelivered, OrderStateCanceled:
		return false // Terminal states
	}
	return false
}

// Order is a user's cart or placed order. TotalPrice is derived from the
// lines on every read and never stored.
type Order struct {
	shared.BaseAggregateRoot
	UserID     int64
	State      OrderState
	ContactID  *int64
	Contact    *identity.Contact
	Lines      []OrderLine
	TotalPrice decimal.Decimal
}

// OrderLine is one offer and quantity within an order. OfferID becomes nil
// when the shop later re-imports its catalog without that offer.
type OrderLine struct {
	ID       int64
	OrderID  int64
	OfferID  *int64
	Offer    *catalog.ProductOffer
	Quantity int
}

// LineTotal returns quantity times the offer price, or zero without an offer
func (l *OrderLine) LineTotal() decimal.Decimal {
	if l.Offer == nil {
		return decimal.Zero
	}
	return l.Offer.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ValidateQuantity checks a requested line quantity
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("quantity must be at least 1")
	}
	if quantity > 10000 {
		return shared.NewValidationError("quantity cannot exceed 10000")
	}
	return nil
}

// IsCart reports whether the order is still a mutable cart
func (o *Order) IsCart() bool {
	return o.State == OrderStateCart
}

// SumLines recomputes the total from loaded lines
func (o *Order) SumLines() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].LineTotal())
	}
	return total
}

// ChangeState moves a placed order along the fulfilment lifecycle
func (o *Order) ChangeState(target OrderState) error {
	if !target.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("unknown order state %q", target))
	}
	if o.IsCart() || target == OrderStateCart || target == OrderStateNew {
		return shared.NewDomainError("INVALID_STATE", "Carts change state only through placement")
	}
	if !o.State.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order state from %s to %s", o.State, target))
	}

	from := o.State
	o.State = target
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderStateChangedEvent(o, from))
	return nil
}
