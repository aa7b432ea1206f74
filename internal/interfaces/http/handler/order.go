package handler

import (
	tradeapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves the buyer's orders
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns the caller's placed orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOwn(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Place turns the cart into an order. A repeated call reports placed=0.
func (h *OrderHandler) Place(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req tradeapp.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Place(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
