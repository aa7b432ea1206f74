package models

import (
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
)

// OrderModel is the persistence model for an order. A cart is an order in
// state "cart"; the total is never stored.
type OrderModel struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"`
	UserID    int64            `gorm:"not null;index"`
	State     trade.OrderState `gorm:"type:varchar(15);not null"`
	ContactID *int64
	Contact   *ContactModel    `gorm:"foreignKey:ContactID"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time        `gorm:"column:dt;not null"`
	UpdatedAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order. TotalPrice is
// filled by the repository from its aggregate query.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		},
		UserID:    m.UserID,
		State:     m.State,
		ContactID: m.ContactID,
		Lines:     make([]trade.OrderLine, 0, len(m.Items)),
	}
	if m.Contact != nil {
		order.Contact = m.Contact.ToDomain()
	}
	for i := range m.Items {
		order.Lines = append(order.Lines, *m.Items[i].ToDomain())
	}
	return order
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	ID            int64             `gorm:"primaryKey;autoIncrement"`
	OrderID       int64             `gorm:"not null"`
	ProductInfoID *int64            `gorm:"column:product_info_id"`
	ProductInfo   *ProductInfoModel `gorm:"foreignKey:ProductInfoID"`
	Quantity      int               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderLine
func (m *OrderItemModel) ToDomain() *trade.OrderLine {
	line := &trade.OrderLine{
		ID:       m.ID,
		OrderID:  m.OrderID,
		OfferID:  m.ProductInfoID,
		Quantity: m.Quantity,
	}
	if m.ProductInfo != nil {
		line.Offer = m.ProductInfo.ToDomain()
	}
	return line
}
