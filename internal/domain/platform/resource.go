package platform

// ResourceKind identifies a provisionable remote resource on the commerce
// platform.
type ResourceKind string

const (
	// ResourceKindCarrierService is the carrier-rate service resource
	ResourceKindCarrierService ResourceKind = "CARRIER_SERVICE"
	// ResourceKindFulfillmentService is the fulfillment service resource
	ResourceKindFulfillmentService ResourceKind = "FULFILLMENT_SERVICE"
	// ResourceKindWebhookSubscription is the order-creation webhook subscription
	ResourceKindWebhookSubscription ResourceKind = "WEBHOOK_SUBSCRIPTION"
)

// IsValid returns true if the resource kind is known
func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceKindCarrierService, ResourceKindFulfillmentService, ResourceKindWebhookSubscription:
		return true
	default:
		return false
	}
}

// String returns the string representation of ResourceKind
func (k ResourceKind) String() string {
	return string(k)
}

// WebhookSubscriptionConfig describes the order-creation webhook subscription
// to provision.
type WebhookSubscriptionConfig struct {
	Topic       string
	CallbackURL string
	Format      string
}

// FulfillmentServiceConfig describes the fulfillment service to provision.
type FulfillmentServiceConfig struct {
	Name                   string
	CallbackURL            string
	TrackingSupport        bool
	InventoryManagement    bool
	RequiresShippingMethod bool
}

// CarrierServiceConfig describes the carrier-rate service to provision.
type CarrierServiceConfig struct {
	Name                     string
	CallbackURL              string
	Active                   bool
	SupportsServiceDiscovery bool
}

// NamedResource is a remote resource as returned by lookup queries. Name is
// the distinguishing attribute used for conflict resolution.
type NamedResource struct {
	ID   string
	Name string
}

// Location is a merchant stock location on the platform.
type Location struct {
	ID                   string
	FulfillsOnlineOrders bool
}

// ProductVariant is one flattened (product, variant) entry from the
// platform catalog.
type ProductVariant struct {
	ProductID    string
	VariantID    string
	ProductTitle string
	VariantTitle string
	SKU          string
}

// TrackingInfo carries tracking details attached to a remote fulfillment.
type TrackingInfo struct {
	Company string
	Number  string
	URL     string
}
