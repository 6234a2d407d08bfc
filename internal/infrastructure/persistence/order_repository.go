package persistence

import (
	"context"
	"errors"

	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
	"github.com/fulfillbridge/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements fulfillment.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order by its remote identifier
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*fulfillment.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fulfillment.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByMerchant lists a merchant's orders, newest first
func (r *GormOrderRepository) ListByMerchant(ctx context.Context, merchant string) ([]fulfillment.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("merchant = ?", merchant).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]fulfillment.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Upsert inserts or replaces the order keyed by its remote id. Redelivered
// order events funnel through here, so the conflict path must not error.
func (r *GormOrderRepository) Upsert(ctx context.Context, o *fulfillment.Order) error {
	var model models.OrderModel
	model.FromDomain(o)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_number",
				"line_item_count",
				"updated_at",
			}),
		}).
		Create(&model).Error
}

// InsertLineItems inserts line items, ignoring duplicates
func (r *GormOrderRepository) InsertLineItems(ctx context.Context, items []fulfillment.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	itemModels := make([]models.OrderLineItemModel, len(items))
	for i, item := range items {
		itemModels[i].FromDomain(item)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&itemModels).Error
}

// UpdateStatus advances an order's status. The WHERE guard on the current
// status keeps the transition monotonic: a redelivered or stale request
// finds zero rows and is resolved by re-reading the order.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id string, from, to fulfillment.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == to {
		// already advanced, nothing to do
		return nil
	}
	return &fulfillment.InvalidTransitionError{From: current.Status, To: to}
}
