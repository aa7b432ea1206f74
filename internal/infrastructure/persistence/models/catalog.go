package models

import (
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ShopModel is the persistence model for a partner shop
type ShopModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(50);not null"`
	URL    string `gorm:"type:varchar(500);not null;default:''"`
	UserID *int64 `gorm:"uniqueIndex"`
	State  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop
func (m *ShopModel) ToDomain() *catalog.Shop {
	return &catalog.Shop{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		URL:               m.URL,
		UserID:            m.UserID,
		State:             m.State,
	}
}

// CategoryModel is the persistence model for a category. IDs come from feeds.
type CategoryModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"type:varchar(40);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{ID: m.ID, Name: m.Name}
}

// CategoryShopModel links categories to the shops that publish them
type CategoryShopModel struct {
	CategoryID int64 `gorm:"primaryKey"`
	ShopID     int64 `gorm:"primaryKey"`
}

// TableName returns the table name for GORM
func (CategoryShopModel) TableName() string {
	return "category_shops"
}

// ProductModel is the persistence model for a product, shared by shops
type ProductModel struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	Name       string         `gorm:"type:varchar(80);not null"`
	CategoryID int64          `gorm:"not null"`
	Category   *CategoryModel `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{ID: m.ID, Name: m.Name, CategoryID: m.CategoryID}
	if m.Category != nil {
		p.Category = m.Category.ToDomain()
	}
	return p
}

// ProductInfoModel is the persistence model for a shop's offer of a product
type ProductInfoModel struct {
	ID         int64                   `gorm:"primaryKey;autoIncrement"`
	ProductID  int64                   `gorm:"not null"`
	Product    *ProductModel           `gorm:"foreignKey:ProductID"`
	ShopID     int64                   `gorm:"not null;index"`
	Shop       *ShopModel              `gorm:"foreignKey:ShopID"`
	ExternalID int64                   `gorm:"not null"`
	Model      string                  `gorm:"type:varchar(80);not null;default:''"`
	Quantity   int                     `gorm:"not null"`
	Price      decimal.Decimal         `gorm:"type:numeric(12,2);not null"`
	PriceRRC   decimal.Decimal         `gorm:"column:price_rrc;type:numeric(12,2);not null"`
	Parameters []ProductParameterModel `gorm:"foreignKey:ProductInfoID"`
}

// TableName returns the table name for GORM
func (ProductInfoModel) TableName() string {
	return "product_infos"
}

// ToDomain converts the persistence model to a domain ProductOffer
func (m *ProductInfoModel) ToDomain() *catalog.ProductOffer {
	offer := &catalog.ProductOffer{
		ID:         m.ID,
		ProductID:  m.ProductID,
		ShopID:     m.ShopID,
		ExternalID: m.ExternalID,
		Model:      m.Model,
		Quantity:   m.Quantity,
		Price:      m.Price,
		PriceRRC:   m.PriceRRC,
		Parameters: make([]catalog.ProductParameter, 0, len(m.Parameters)),
	}
	if m.Product != nil {
		offer.Product = m.Product.ToDomain()
	}
	if m.Shop != nil {
		offer.Shop = m.Shop.ToDomain()
	}
	for i := range m.Parameters {
		offer.Parameters = append(offer.Parameters, m.Parameters[i].ToDomain())
	}
	return offer
}

// ParameterModel is a globally unique parameter name
type ParameterModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(40);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ParameterModel) TableName() string {
	return "parameters"
}

// ProductParameterModel is a parameter value attached to an offer
type ProductParameterModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	ProductInfoID int64           `gorm:"not null"`
	ParameterID   int64           `gorm:"not null"`
	Parameter     *ParameterModel `gorm:"foreignKey:ParameterID"`
	Value         string          `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ProductParameterModel) TableName() string {
	return "product_parameters"
}

// ToDomain converts the persistence model to a domain ProductParameter
func (m *ProductParameterModel) ToDomain() catalog.ProductParameter {
	p := catalog.ProductParameter{ID: m.ID, ParameterID: m.ParameterID, Value: m.Value}
	if m.Parameter != nil {
		p.Name = m.Parameter.Name
	}
	return p
}
