package handler

import (
	catalogapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public catalog: shops, categories and offers
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListShops returns the shops currently accepting orders
func (h *CatalogHandler) ListShops(c *gin.Context) {
	shops, err := h.catalogService.ListShops(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shops)
}

// ListCategories returns all categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ListProducts returns offers of active shops, optionally filtered by
// shop_id and category_id
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.OfferListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	offers, err := h.catalogService.ListOffers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offers)
}
