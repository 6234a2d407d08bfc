package platform

import "context"

// AdminGateway is the port to the remote commerce platform's admin API.
// All calls are scoped to a merchant; implementations resolve credentials
// per merchant. Mutations that the platform rejects with a structured
// validation-error list return a *UserErrors so callers can distinguish
// naming conflicts from transport failures.
type AdminGateway interface {
	// CreateWebhookSubscription provisions the order-creation webhook and
	// returns its remote identifier.
	CreateWebhookSubscription(ctx context.Context, merchant string, cfg WebhookSubscriptionConfig) (string, error)

	// CreateFulfillmentService provisions a fulfillment service and returns
	// its remote identifier.
	CreateFulfillmentService(ctx context.Context, merchant string, cfg FulfillmentServiceConfig) (string, error)

	// ListFulfillmentServices lists the merchant's fulfillment services.
	ListFulfillmentServices(ctx context.Context, merchant string) ([]NamedResource, error)

	// CreateCarrierService provisions a carrier-rate service and returns its
	// remote identifier.
	CreateCarrierService(ctx context.Context, merchant string, cfg CarrierServiceConfig) (string, error)

	// ListCarrierServices lists carrier services filtered by name.
	ListCarrierServices(ctx context.Context, merchant string, nameQuery string) ([]NamedResource, error)

	// FulfillmentServiceLocation resolves the stock location backing a
	// fulfillment service. Returns "" without error when the platform has not
	// assigned one yet.
	FulfillmentServiceLocation(ctx context.Context, merchant string, fulfillmentServiceID string) (string, error)

	// InventoryItems resolves variant IDs to inventory-item IDs in one
	// batched lookup. Variants without an inventory item are absent from the
	// result.
	InventoryItems(ctx context.Context, merchant string, variantIDs []string) (map[string]string, error)

	// Locations enumerates the merchant's stock locations.
	Locations(ctx context.Context, merchant string) ([]Location, error)

	// SetInventoryQuantity sets the available quantity of an inventory item
	// at a location.
	SetInventoryQuantity(ctx context.Context, merchant string, inventoryItemID, locationID string, quantity int, reason string) error

	// ActivateInventory activates an inventory item at a location.
	ActivateInventory(ctx context.Context, merchant string, inventoryItemID, locationID string) error

	// ProductVariants lists the merchant's catalog flattened to
	// (product, variant) entries.
	ProductVariants(ctx context.Context, merchant string) ([]ProductVariant, error)

	// FulfillmentOrderID resolves the open remote fulfillment order for an
	// order. Returns "" without error when none exists.
	FulfillmentOrderID(ctx context.Context, merchant string, orderID string) (string, error)

	// CreateFulfillment records a fulfillment with tracking info against a
	// remote fulfillment order.
	CreateFulfillment(ctx context.Context, merchant string, fulfillmentOrderID string, tracking TrackingInfo) error
}
