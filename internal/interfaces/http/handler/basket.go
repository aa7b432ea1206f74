package handler

import (
	tradeapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// BasketHandler serves the caller's cart
type BasketHandler struct {
	BaseHandler
	cartService *tradeapp.CartService
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(cartService *tradeapp.CartService) *BasketHandler {
	return &BasketHandler{cartService: cartService}
}

// Get returns the cart with expanded lines and its current total
func (h *BasketHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.ViewCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Add puts offers into the cart. Rejected items are listed in errors while
// the rest are still added.
func (h *BasketHandler) Add(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req tradeapp.AddLinesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.cartService.AddLines(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Update changes line quantities
func (h *BasketHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req tradeapp.UpdateLinesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.cartService.UpdateLines(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Remove deletes lines given as "1,2,3" in the body or the items query
func (h *BasketHandler) Remove(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req tradeapp.RemoveLinesRequest
	if !bindItems(&h.BaseHandler, c, &req) {
		return
	}

	result, err := h.cartService.RemoveLines(c.Request.Context(), userID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// bindItems reads a bulk delete request from ?items= when present, else
// from the JSON body
func bindItems(h *BaseHandler, c *gin.Context, obj any) bool {
	if _, ok := c.GetQuery("items"); ok {
		return h.BindQuery(c, obj)
	}
	return h.BindJSON(c, obj)
}
