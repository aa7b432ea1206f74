package catalog

import (
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ImportRequest asks to replace the caller's catalog with the feed at URL
type ImportRequest struct {
	URL string `json:"url" binding:"required,url,max=500"`
}

// SetShopStateRequest toggles whether the caller's shop accepts orders
type SetShopStateRequest struct {
	State *bool `json:"state" binding:"required"`
}

// OfferListFilter narrows the public offer listing
type OfferListFilter struct {
	ShopID     *int64 `form:"shop_id" binding:"omitempty,min=1"`
	CategoryID *int64 `form:"category_id" binding:"omitempty,min=1"`
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	State bool   `json:"state"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductResponse represents the product behind an offer
type ProductResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ParameterResponse is one name/value parameter of an offer
type ParameterResponse struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// OfferResponse represents a shop's offer (product info) in API responses
type OfferResponse struct {
	ID         int64               `json:"id"`
	ExternalID int64               `json:"external_id"`
	Model      string              `json:"model"`
	Product    *ProductResponse    `json:"product"`
	Shop       *ShopResponse       `json:"shop"`
	Quantity   int                 `json:"quantity"`
	Price      decimal.Decimal     `json:"price"`
	PriceRRC   decimal.Decimal     `json:"price_rrc"`
	Parameters []ParameterResponse `json:"product_parameters"`
}

// ToShopResponse converts a domain Shop to a response
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{ID: s.ID, Name: s.Name, URL: s.URL, State: s.State}
}

// ToCategoryResponse converts a domain Category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// ToOfferResponse converts a domain ProductOffer to a response
func ToOfferResponse(o *catalog.ProductOffer) OfferResponse {
	resp := OfferResponse{
		ID:         o.ID,
		ExternalID: o.ExternalID,
		Model:      o.Model,
		Quantity:   o.Quantity,
		Price:      o.Price,
		PriceRRC:   o.PriceRRC,
		Parameters: make([]ParameterResponse, 0, len(o.Parameters)),
	}
	if o.Product != nil {
		resp.Product = &ProductResponse{ID: o.Product.ID, Name: o.Product.Name}
		if o.Product.Category != nil {
			resp.Product.Category = o.Product.Category.Name
		}
	}
	if o.Shop != nil {
		shop := ToShopResponse(o.Shop)
		shop.URL = ""
		resp.Shop = &shop
	}
	for _, p := range o.Parameters {
		resp.Parameters = append(resp.Parameters, ParameterResponse{Parameter: p.Name, Value: p.Value})
	}
	return resp
}
