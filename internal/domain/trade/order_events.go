package trade

import (
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced       = "OrderPlaced"
	EventTypeOrderStateChanged = "OrderStateChanged"
)

// OrderPlacedEvent is published after a cart became a new order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID   int64 `json:"order_id"`
	UserID    int64 `json:"user_id"`
	ContactID int64 `json:"contact_id"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(orderID, userID, contactID int64) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, orderID),
		OrderID:         orderID,
		UserID:          userID,
		ContactID:       contactID,
	}
}

// OrderStateChangedEvent is published when a placed order moves along its lifecycle
type OrderStateChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   int64      `json:"order_id"`
	UserID    int64      `json:"user_id"`
	FromState OrderState `json:"from_state"`
	ToState   OrderState `json:"to_state"`
}

// NewOrderStateChangedEvent creates a new OrderStateChangedEvent
func NewOrderStateChangedEvent(order *Order, from OrderState) *OrderStateChangedEvent {
	return &OrderStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStateChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		UserID:          order.UserID,
		FromState:       from,
		ToState:         order.State,
	}
}
