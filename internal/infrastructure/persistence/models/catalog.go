package models

import (
	"time"

	"github.com/fulfillbridge/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// RegisteredProductModel is the persistence model for the RegisteredProduct
// domain entity.
type RegisteredProductModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key"`
	Merchant             string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_registered_products_key,priority:1;index:idx_registered_products_merchant"`
	ProductID            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_registered_products_key,priority:2"`
	VariantID            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_registered_products_key,priority:3"`
	ProductTitle         string    `gorm:"type:varchar(255)"`
	VariantTitle         string    `gorm:"type:varchar(255)"`
	Title                string    `gorm:"type:varchar(512)"`
	SKU                  string    `gorm:"type:varchar(255)"`
	FulfillmentServiceID string    `gorm:"type:varchar(255);not null;index:idx_registered_products_fs"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RegisteredProductModel) TableName() string {
	return "registered_products"
}

// ToDomain converts the persistence model to a domain RegisteredProduct entity.
func (m *RegisteredProductModel) ToDomain() *catalog.RegisteredProduct {
	return &catalog.RegisteredProduct{
		ID:                   m.ID,
		Merchant:             m.Merchant,
		ProductID:            m.ProductID,
		VariantID:            m.VariantID,
		ProductTitle:         m.ProductTitle,
		VariantTitle:         m.VariantTitle,
		Title:                m.Title,
		SKU:                  m.SKU,
		FulfillmentServiceID: m.FulfillmentServiceID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain RegisteredProduct entity.
func (m *RegisteredProductModel) FromDomain(p *catalog.RegisteredProduct) {
	m.ID = p.ID
	m.Merchant = p.Merchant
	m.ProductID = p.ProductID
	m.VariantID = p.VariantID
	m.ProductTitle = p.ProductTitle
	m.VariantTitle = p.VariantTitle
	m.Title = p.Title
	m.SKU = p.SKU
	m.FulfillmentServiceID = p.FulfillmentServiceID
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
