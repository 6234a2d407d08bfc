package models

import (
	"time"

	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
)

// OrderModel is the persistence model for the Order domain entity. The
// primary key is the remote order identifier.
type OrderModel struct {
	ID            string                  `gorm:"type:varchar(255);primary_key"`
	Merchant      string                  `gorm:"type:varchar(255);not null;index:idx_orders_merchant"`
	OrderNumber   string                  `gorm:"type:varchar(255)"`
	LineItemCount int                     `gorm:"not null"`
	Status        fulfillment.OrderStatus `gorm:"type:varchar(20);not null;default:'CREATED'"`
	CreatedAt     time.Time               `gorm:"not null"`
	UpdatedAt     time.Time               `gorm:"not null"`

	LineItems []OrderLineItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *fulfillment.Order {
	return &fulfillment.Order{
		ID:            m.ID,
		Merchant:      m.Merchant,
		OrderNumber:   m.OrderNumber,
		LineItemCount: m.LineItemCount,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *fulfillment.Order) {
	m.ID = o.ID
	m.Merchant = o.Merchant
	m.OrderNumber = o.OrderNumber
	m.LineItemCount = o.LineItemCount
	m.Status = o.Status
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

// OrderLineItemModel is the persistence model for OrderLineItem. The primary
// key is the remote line-item identifier.
type OrderLineItemModel struct {
	ID       string `gorm:"type:varchar(255);primary_key"`
	OrderID  string `gorm:"type:varchar(255);not null;index:idx_order_line_items_order"`
	SKU      string `gorm:"type:varchar(255)"`
	Quantity int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}

// ToDomain converts the persistence model to a domain OrderLineItem.
func (m *OrderLineItemModel) ToDomain() fulfillment.OrderLineItem {
	return fulfillment.OrderLineItem{
		ID:       m.ID,
		OrderID:  m.OrderID,
		SKU:      m.SKU,
		Quantity: m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain OrderLineItem.
func (m *OrderLineItemModel) FromDomain(li fulfillment.OrderLineItem) {
	m.ID = li.ID
	m.OrderID = li.OrderID
	m.SKU = li.SKU
	m.Quantity = li.Quantity
}
