package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog item, unique by (name, category)
type Product struct {
	ID         int64
	Name       string
	CategoryID int64
	Category   *Category
}

// ProductOffer is a shop's listing of a product. Offers are owned by the shop
// and are rebuilt on every feed import.
type ProductOffer struct {
	ID         int64
	ProductID  int64
	Product    *Product
	ShopID     int64
	Shop       *Shop
	ExternalID int64
	Model      string
	Quantity   int
	Price      decimal.Decimal
	PriceRRC   decimal.Decimal
	Parameters []ProductParameter
}

// IsAvailable reports whether the offer can be added to a cart
func (o *ProductOffer) IsAvailable() bool {
	return o.Shop == nil || o.Shop.IsActive()
}

// Parameter returns the value of the named parameter, if present
func (o *ProductOffer) Parameter(name string) (string, bool) {
	for _, p := range o.Parameters {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// ProductParameter is a named attribute value attached to one offer
type ProductParameter struct {
	ID          int64
	ParameterID int64
	Name        string
	Value       string
}
