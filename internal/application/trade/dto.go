package trade

import (
	"time"

	appcatalog "github.com/Tahir-Ryasnov/netology-diplom/internal/application/catalog"
	appidentity "github.com/Tahir-Ryasnov/netology-diplom/internal/application/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// AddLineItem is one requested cart line. Items are validated one by one so
// a bad line does not reject the batch.
type AddLineItem struct {
	ProductInfo int64 `json:"product_info"`
	Quantity    int   `json:"quantity"`
}

// AddLinesRequest adds offers to the caller's cart
type AddLinesRequest struct {
	Items []AddLineItem `json:"items" binding:"required,min=1,max=100"`
}

// UpdateLineItem sets the quantity of an existing cart line. Like
// AddLineItem it is checked per item by the service.
type UpdateLineItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// UpdateLinesRequest changes quantities in the caller's cart
type UpdateLinesRequest struct {
	Items []UpdateLineItem `json:"items" binding:"required,min=1,max=100"`
}

// RemoveLinesRequest removes cart lines by comma-separated ids
type RemoveLinesRequest struct {
	Items string `json:"items" form:"items" binding:"required,max=1000"`
}

// PlaceOrderRequest turns the cart into an order delivered to Contact
type PlaceOrderRequest struct {
	ID      int64 `json:"id" binding:"required,min=1"`
	Contact int64 `json:"contact" binding:"required,min=1"`
}

// ChangeStateRequest moves a placed order along its lifecycle
type ChangeStateRequest struct {
	State string `json:"state" binding:"required,oneof=confirmed assembled sent delivered canceled"`
}

// LineError reports why one requested line was not added
type LineError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// AddLinesResult reports how many lines were added
type AddLinesResult struct {
	Created int         `json:"created"`
	Errors  []LineError `json:"errors"`
}

// UpdateLinesResult reports how many lines were updated and which items
// were rejected before reaching the cart
type UpdateLinesResult struct {
	Updated int64       `json:"updated"`
	Errors  []LineError `json:"errors"`
}

// RemoveLinesResult reports how many lines were removed
type RemoveLinesResult struct {
	Deleted int64 `json:"deleted"`
}

// PlaceOrderResult reports whether the cart was placed
type PlaceOrderResult struct {
	Placed int64 `json:"placed"`
}

// OrderLineResponse represents an order line. ProductInfo is nil when the
// offer was removed by a later catalog import.
type OrderLineResponse struct {
	ID          int64                     `json:"id"`
	Quantity    int                       `json:"quantity"`
	ProductInfo *appcatalog.OfferResponse `json:"product_info"`
}

// OrderResponse represents a cart or order in API responses
type OrderResponse struct {
	ID         int64                        `json:"id"`
	State      string                       `json:"state"`
	Dt         time.Time                    `json:"dt"`
	TotalPrice decimal.Decimal              `json:"total_price"`
	Contact    *appidentity.ContactResponse `json:"contact"`
	Goods      []OrderLineResponse          `json:"goods"`
}

// ToOrderResponse converts a domain Order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		State:      o.State.String(),
		Dt:         o.CreatedAt,
		TotalPrice: o.TotalPrice,
		Goods:      make([]OrderLineResponse, 0, len(o.Lines)),
	}
	if o.Contact != nil {
		c := appidentity.ToContactResponse(o.Contact)
		resp.Contact = &c
	}
	for i := range o.Lines {
		line := &o.Lines[i]
		lr := OrderLineResponse{ID: line.ID, Quantity: line.Quantity}
		if line.Offer != nil {
			offer := appcatalog.ToOfferResponse(line.Offer)
			lr.ProductInfo = &offer
		}
		resp.Goods = append(resp.Goods, lr)
	}
	return resp
}

// ToOrderResponses converts a list of domain Orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, ToOrderResponse(&orders[i]))
	}
	return resp
}

func emptyCart() OrderResponse {
	return OrderResponse{
		State:      trade.OrderStateCart.String(),
		TotalPrice: decimal.Zero,
		Goods:      []OrderLineResponse{},
	}
}
