package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fulfillbridge/backend/internal/domain/platform"
)

// MockAdminGateway is a testify mock of platform.AdminGateway, shared by the
// application-service tests.
type MockAdminGateway struct {
	mock.Mock
}

var _ platform.AdminGateway = (*MockAdminGateway)(nil)

func (m *MockAdminGateway) CreateWebhookSubscription(ctx context.Context, merchant string, cfg platform.WebhookSubscriptionConfig) (string, error) {
	args := m.Called(ctx, merchant, cfg)
	return args.String(0), args.Error(1)
}

func (m *MockAdminGateway) CreateFulfillmentService(ctx context.Context, merchant string, cfg platform.FulfillmentServiceConfig) (string, error) {
	args := m.Called(ctx, merchant, cfg)
	return args.String(0), args.Error(1)
}

func (m *MockAdminGateway) ListFulfillmentServices(ctx context.Context, merchant string) ([]platform.NamedResource, error) {
	args := m.Called(ctx, merchant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.NamedResource), args.Error(1)
}

func (m *MockAdminGateway) CreateCarrierService(ctx context.Context, merchant string, cfg platform.CarrierServiceConfig) (string, error) {
	args := m.Called(ctx, merchant, cfg)
	return args.String(0), args.Error(1)
}

func (m *MockAdminGateway) ListCarrierServices(ctx context.Context, merchant string, nameQuery string) ([]platform.NamedResource, error) {
	args := m.Called(ctx, merchant, nameQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.NamedResource), args.Error(1)
}

func (m *MockAdminGateway) FulfillmentServiceLocation(ctx context.Context, merchant string, fulfillmentServiceID string) (string, error) {
	args := m.Called(ctx, merchant, fulfillmentServiceID)
	return args.String(0), args.Error(1)
}

func (m *MockAdminGateway) InventoryItems(ctx context.Context, merchant string, variantIDs []string) (map[string]string, error) {
	args := m.Called(ctx, merchant, variantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockAdminGateway) Locations(ctx context.Context, merchant string) ([]platform.Location, error) {
	args := m.Called(ctx, merchant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Location), args.Error(1)
}

func (m *MockAdminGateway) SetInventoryQuantity(ctx context.Context, merchant string, inventoryItemID, locationID string, quantity int, reason string) error {
	args := m.Called(ctx, merchant, inventoryItemID, locationID, quantity, reason)
	return args.Error(0)
}

func (m *MockAdminGateway) ActivateInventory(ctx context.Context, merchant string, inventoryItemID, locationID string) error {
	args := m.Called(ctx, merchant, inventoryItemID, locationID)
	return args.Error(0)
}

func (m *MockAdminGateway) ProductVariants(ctx context.Context, merchant string) ([]platform.ProductVariant, error) {
	args := m.Called(ctx, merchant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.ProductVariant), args.Error(1)
}

func (m *MockAdminGateway) FulfillmentOrderID(ctx context.Context, merchant string, orderID string) (string, error) {
	args := m.Called(ctx, merchant, orderID)
	return args.String(0), args.Error(1)
}

func (m *MockAdminGateway) CreateFulfillment(ctx context.Context, merchant string, fulfillmentOrderID string, tracking platform.TrackingInfo) error {
	args := m.Called(ctx, merchant, fulfillmentOrderID, tracking)
	return args.Error(0)
}
