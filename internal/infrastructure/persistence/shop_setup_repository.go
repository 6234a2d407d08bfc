package persistence

import (
	"context"
	"errors"

	"github.com/fulfillbridge/backend/internal/domain/setup"
	"github.com/fulfillbridge/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShopSetupRepository implements setup.Repository using GORM
type GormShopSetupRepository struct {
	db *gorm.DB
}

// NewGormShopSetupRepository creates a new GormShopSetupRepository
func NewGormShopSetupRepository(db *gorm.DB) *GormShopSetupRepository {
	return &GormShopSetupRepository{db: db}
}

// FindByMerchant loads the merchant's setup record
func (r *GormShopSetupRepository) FindByMerchant(ctx context.Context, merchant string) (*setup.ShopSetup, error) {
	var model models.ShopSetupModel
	if err := r.db.WithContext(ctx).First(&model, "merchant = ?", merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setup.ErrSetupNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts or replaces the merchant's setup record. The conflict
// target on merchant makes this the atomicity boundary for racing
// provisioning attempts: both may write, one row survives.
func (r *GormShopSetupRepository) Upsert(ctx context.Context, s *setup.ShopSetup) error {
	var model models.ShopSetupModel
	model.FromDomain(s)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "merchant"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"carrier_service_id",
				"fulfillment_service_id",
				"order_webhook_id",
				"step1_completed",
				"step2_completed",
				"updated_at",
			}),
		}).
		Create(&model).Error
}
