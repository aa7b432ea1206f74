package handler

import (
	"net/http"
	"strconv"

	catalogapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/catalog"
	tradeapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/trade"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PartnerHandler serves the shop owner endpoints: catalog import, shop state
// and fulfilment of orders containing the shop's offers
type PartnerHandler struct {
	BaseHandler
	importService  *catalogapp.ImportService
	partnerService *catalogapp.PartnerService
	orderService   *tradeapp.OrderService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(
	importService *catalogapp.ImportService,
	partnerService *catalogapp.PartnerService,
	orderService *tradeapp.OrderService,
) *PartnerHandler {
	return &PartnerHandler{
		importService:  importService,
		partnerService: partnerService,
		orderService:   orderService,
	}
}

// Update replaces the caller's catalog with the feed at the posted url
func (h *PartnerHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req catalogapp.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.importService.Import(c.Request.Context(), userID, req.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetState returns the caller's shop and whether it accepts orders
func (h *PartnerHandler) GetState(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	shop, err := h.partnerService.GetState(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// SetState opens or closes the caller's shop
func (h *PartnerHandler) SetState(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req catalogapp.SetShopStateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shop, err := h.partnerService.SetState(c.Request.Context(), userID, *req.State)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// Orders lists placed orders containing the caller's offers
func (h *PartnerHandler) Orders(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListPartner(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// ChangeOrderState moves an order along its lifecycle
func (h *PartnerHandler) ChangeOrderState(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid order id")
		return
	}
	var req tradeapp.ChangeStateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.ChangeState(c.Request.Context(), userID, orderID, req.State)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
