package persistence

import (
	"context"

	"github.com/fulfillbridge/backend/internal/domain/catalog"
	"github.com/fulfillbridge/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRegisteredProductRepository implements catalog.Repository using GORM
type GormRegisteredProductRepository struct {
	db *gorm.DB
}

// NewGormRegisteredProductRepository creates a new GormRegisteredProductRepository
func NewGormRegisteredProductRepository(db *gorm.DB) *GormRegisteredProductRepository {
	return &GormRegisteredProductRepository{db: db}
}

// FindByMerchant lists all of a merchant's registrations
func (r *GormRegisteredProductRepository) FindByMerchant(ctx context.Context, merchant string) ([]catalog.RegisteredProduct, error) {
	var productModels []models.RegisteredProductModel
	if err := r.db.WithContext(ctx).
		Where("merchant = ?", merchant).
		Order("created_at ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// FindByFulfillmentService lists the merchant's registrations bound to a
// fulfillment service
func (r *GormRegisteredProductRepository) FindByFulfillmentService(ctx context.Context, merchant, fulfillmentServiceID string) ([]catalog.RegisteredProduct, error) {
	var productModels []models.RegisteredProductModel
	if err := r.db.WithContext(ctx).
		Where("merchant = ? AND fulfillment_service_id = ?", merchant, fulfillmentServiceID).
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// FindByKeys returns the already-registered subset of the given
// (product, variant) pairs
func (r *GormRegisteredProductRepository) FindByKeys(ctx context.Context, merchant string, keys []catalog.VariantKey) ([]catalog.RegisteredProduct, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Where("merchant = ?", merchant)
	pairs := r.db.Session(&gorm.Session{NewDB: true})
	for i, key := range keys {
		cond := r.db.Session(&gorm.Session{NewDB: true}).
			Where("product_id = ? AND variant_id = ?", key.ProductID, key.VariantID)
		if i == 0 {
			pairs = pairs.Where(cond)
		} else {
			pairs = pairs.Or(cond)
		}
	}

	var productModels []models.RegisteredProductModel
	if err := query.Where(pairs).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// CreateBatch inserts a batch of registrations
func (r *GormRegisteredProductRepository) CreateBatch(ctx context.Context, products []catalog.RegisteredProduct) error {
	if len(products) == 0 {
		return nil
	}
	productModels := make([]models.RegisteredProductModel, len(products))
	for i := range products {
		productModels[i].FromDomain(&products[i])
	}
	return r.db.WithContext(ctx).Create(&productModels).Error
}

func toDomainProducts(productModels []models.RegisteredProductModel) []catalog.RegisteredProduct {
	products := make([]catalog.RegisteredProduct, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products
}
