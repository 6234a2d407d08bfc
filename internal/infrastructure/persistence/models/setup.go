package models

import (
	"time"

	"github.com/fulfillbridge/backend/internal/domain/setup"
	"github.com/google/uuid"
)

// ShopSetupModel is the persistence model for the ShopSetup domain entity.
type ShopSetupModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key"`
	Merchant             string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_shop_setups_merchant"`
	CarrierServiceID     *string   `gorm:"type:varchar(255)"`
	FulfillmentServiceID *string   `gorm:"type:varchar(255)"`
	OrderWebhookID       *string   `gorm:"type:varchar(255)"`
	Step1Completed       bool      `gorm:"not null;default:false"`
	Step2Completed       bool      `gorm:"not null;default:false"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShopSetupModel) TableName() string {
	return "shop_setups"
}

// ToDomain converts the persistence model to a domain ShopSetup entity.
func (m *ShopSetupModel) ToDomain() *setup.ShopSetup {
	return &setup.ShopSetup{
		ID:                   m.ID,
		Merchant:             m.Merchant,
		CarrierServiceID:     m.CarrierServiceID,
		FulfillmentServiceID: m.FulfillmentServiceID,
		OrderWebhookID:       m.OrderWebhookID,
		Step1Completed:       m.Step1Completed,
		Step2Completed:       m.Step2Completed,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ShopSetup entity.
func (m *ShopSetupModel) FromDomain(s *setup.ShopSetup) {
	m.ID = s.ID
	m.Merchant = s.Merchant
	m.CarrierServiceID = s.CarrierServiceID
	m.FulfillmentServiceID = s.FulfillmentServiceID
	m.OrderWebhookID = s.OrderWebhookID
	m.Step1Completed = s.Step1Completed
	m.Step2Completed = s.Step2Completed
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}
