package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/platform"
	"github.com/fulfillbridge/backend/internal/infrastructure/config"
)

const maxResponseSize = 10 * 1024 * 1024 // 10MB

// AdminClient talks to the storefront platform's admin GraphQL API. One
// client serves every merchant; the endpoint template and access token are
// resolved per call.
type AdminClient struct {
	endpoint   string // template with a %s placeholder for the merchant domain
	apiVersion string
	token      string
	client     *http.Client
	logger     *zap.Logger

	mu             sync.RWMutex
	merchantTokens map[string]string
}

var _ platform.AdminGateway = (*AdminClient)(nil)

// NewAdminClient builds a client from the platform section of the config.
func NewAdminClient(cfg config.PlatformConfig, logger *zap.Logger) (*AdminClient, error) {
	if !strings.Contains(cfg.Endpoint, "%s") {
		return nil, fmt.Errorf("platform endpoint must contain a merchant placeholder: %q", cfg.Endpoint)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AdminClient{
		endpoint:       cfg.Endpoint,
		apiVersion:     cfg.APIVersion,
		token:          cfg.AccessToken,
		client:         &http.Client{Timeout: timeout},
		logger:         logger,
		merchantTokens: make(map[string]string),
	}, nil
}

// SetMerchantToken registers a per-merchant access token, overriding the
// default token for that merchant's calls.
func (c *AdminClient) SetMerchantToken(merchant, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.merchantTokens[merchant] = token
}

func (c *AdminClient) tokenFor(merchant string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.merchantTokens[merchant]; ok {
		return t
	}
	return c.token
}

func (c *AdminClient) urlFor(merchant string) string {
	return fmt.Sprintf(c.endpoint, merchant)
}

func (c *AdminClient) doGraphQL(ctx context.Context, merchant, query string, variables map[string]any, out any) error {
	token := c.tokenFor(merchant)
	if token == "" {
		return platform.ErrPlatformNotConfigured
	}

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.urlFor(merchant), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Access-Token", token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", platform.ErrPlatformRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("admin api request failed",
			zap.String("merchant", merchant),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", platform.ErrPlatformRequestFailed, resp.StatusCode)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrPlatformInvalidResponse, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", platform.ErrPlatformRequestFailed, envelope.Errors[0].Message)
	}
	if envelope.Data == nil {
		return platform.ErrPlatformInvalidResponse
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrPlatformInvalidResponse, err)
	}
	return nil
}

// CreateWebhookSubscription registers a webhook and returns its remote id.
// Subscription conflicts are not reported as userErrors with a recoverable
// signature, so any userError here surfaces as-is.
func (c *AdminClient) CreateWebhookSubscription(ctx context.Context, merchant string, cfg platform.WebhookSubscriptionConfig) (string, error) {
	var data webhookSubscriptionCreateData
	err := c.doGraphQL(ctx, merchant, webhookSubscriptionCreateQuery, map[string]any{
		"topic":       cfg.Topic,
		"callbackUrl": cfg.CallbackURL,
		"format":      cfg.Format,
	}, &data)
	if err != nil {
		return "", err
	}
	payload := data.WebhookSubscriptionCreate
	if len(payload.UserErrors) > 0 {
		return "", platform.NewUserErrors(platform.ResourceKindWebhookSubscription, userErrorMessages(payload.UserErrors))
	}
	if payload.WebhookSubscription == nil || payload.WebhookSubscription.ID == "" {
		return "", platform.ErrPlatformInvalidResponse
	}
	return payload.WebhookSubscription.ID, nil
}

func (c *AdminClient) CreateFulfillmentService(ctx context.Context, merchant string, cfg platform.FulfillmentServiceConfig) (string, error) {
	var data fulfillmentServiceCreateData
	err := c.doGraphQL(ctx, merchant, fulfillmentServiceCreateQuery, map[string]any{
		"name":                   cfg.Name,
		"callbackUrl":            cfg.CallbackURL,
		"trackingSupport":        cfg.TrackingSupport,
		"inventoryManagement":    cfg.InventoryManagement,
		"requiresShippingMethod": cfg.RequiresShippingMethod,
	}, &data)
	if err != nil {
		return "", err
	}
	payload := data.FulfillmentServiceCreate
	if len(payload.UserErrors) > 0 {
		return "", platform.NewUserErrors(platform.ResourceKindFulfillmentService, userErrorMessages(payload.UserErrors))
	}
	if payload.FulfillmentService == nil || payload.FulfillmentService.ID == "" {
		return "", platform.ErrPlatformInvalidResponse
	}
	return payload.FulfillmentService.ID, nil
}

func (c *AdminClient) ListFulfillmentServices(ctx context.Context, merchant string) ([]platform.NamedResource, error) {
	var data fulfillmentServiceListData
	if err := c.doGraphQL(ctx, merchant, fulfillmentServiceListQuery, nil, &data); err != nil {
		return nil, err
	}
	resources := make([]platform.NamedResource, 0, len(data.Shop.FulfillmentServices))
	for _, fs := range data.Shop.FulfillmentServices {
		resources = append(resources, platform.NamedResource{ID: fs.ID, Name: fs.ServiceName})
	}
	return resources, nil
}

func (c *AdminClient) CreateCarrierService(ctx context.Context, merchant string, cfg platform.CarrierServiceConfig) (string, error) {
	var data carrierServiceCreateData
	err := c.doGraphQL(ctx, merchant, carrierServiceCreateQuery, map[string]any{
		"input": map[string]any{
			"name":                     cfg.Name,
			"callbackUrl":              cfg.CallbackURL,
			"active":                   cfg.Active,
			"supportsServiceDiscovery": cfg.SupportsServiceDiscovery,
		},
	}, &data)
	if err != nil {
		return "", err
	}
	payload := data.CarrierServiceCreate
	if len(payload.UserErrors) > 0 {
		return "", platform.NewUserErrors(platform.ResourceKindCarrierService, userErrorMessages(payload.UserErrors))
	}
	if payload.CarrierService == nil || payload.CarrierService.ID == "" {
		return "", platform.ErrPlatformInvalidResponse
	}
	return payload.CarrierService.ID, nil
}

func (c *AdminClient) ListCarrierServices(ctx context.Context, merchant, nameQuery string) ([]platform.NamedResource, error) {
	var data carrierServiceListData
	err := c.doGraphQL(ctx, merchant, carrierServiceListQuery, map[string]any{
		"first": 10,
		"query": nameQuery,
	}, &data)
	if err != nil {
		return nil, err
	}
	resources := make([]platform.NamedResource, 0, len(data.CarrierServices.Edges))
	for _, edge := range data.CarrierServices.Edges {
		resources = append(resources, platform.NamedResource{ID: edge.Node.ID, Name: edge.Node.Name})
	}
	return resources, nil
}

// FulfillmentServiceLocation returns the empty string when the service has no
// location assigned yet.
func (c *AdminClient) FulfillmentServiceLocation(ctx context.Context, merchant, fulfillmentServiceID string) (string, error) {
	var data fulfillmentServiceLocationData
	err := c.doGraphQL(ctx, merchant, fulfillmentServiceLocationQuery, map[string]any{
		"id": fulfillmentServiceID,
	}, &data)
	if err != nil {
		return "", err
	}
	if data.FulfillmentService == nil || data.FulfillmentService.Location == nil {
		return "", nil
	}
	return data.FulfillmentService.Location.ID, nil
}

// InventoryItems resolves variant ids to inventory item ids in one batched
// call. Variants that no longer exist are omitted from the result.
func (c *AdminClient) InventoryItems(ctx context.Context, merchant string, variantIDs []string) (map[string]string, error) {
	var data variantInventoryData
	err := c.doGraphQL(ctx, merchant, variantInventoryQuery, map[string]any{
		"ids": variantIDs,
	}, &data)
	if err != nil {
		return nil, err
	}
	items := make(map[string]string, len(data.Nodes))
	for _, node := range data.Nodes {
		if node == nil || node.InventoryItem == nil {
			continue
		}
		items[node.ID] = node.InventoryItem.ID
	}
	return items, nil
}

func (c *AdminClient) Locations(ctx context.Context, merchant string) ([]platform.Location, error) {
	var data locationListData
	err := c.doGraphQL(ctx, merchant, locationListQuery, map[string]any{"first": 10}, &data)
	if err != nil {
		return nil, err
	}
	locations := make([]platform.Location, 0, len(data.Locations.Nodes))
	for _, node := range data.Locations.Nodes {
		locations = append(locations, platform.Location{
			ID:                   node.ID,
			FulfillsOnlineOrders: node.FulfillsOnlineOrders,
		})
	}
	return locations, nil
}

func (c *AdminClient) SetInventoryQuantity(ctx context.Context, merchant, inventoryItemID, locationID string, quantity int, reason string) error {
	var data inventorySetQuantitiesData
	err := c.doGraphQL(ctx, merchant, inventorySetQuantitiesQuery, map[string]any{
		"inventoryItemId": inventoryItemID,
		"locationId":      locationID,
		"quantity":        quantity,
		"reason":          reason,
	}, &data)
	if err != nil {
		return err
	}
	if errs := data.InventorySetQuantities.UserErrors; len(errs) > 0 {
		return fmt.Errorf("set inventory quantity: %s", errs[0].Message)
	}
	return nil
}

func (c *AdminClient) ActivateInventory(ctx context.Context, merchant, inventoryItemID, locationID string) error {
	var data inventoryActivateData
	err := c.doGraphQL(ctx, merchant, inventoryActivateQuery, map[string]any{
		"inventoryItemId": inventoryItemID,
		"locationId":      locationID,
	}, &data)
	if err != nil {
		return err
	}
	if errs := data.InventoryActivate.UserErrors; len(errs) > 0 {
		return fmt.Errorf("activate inventory: %s", errs[0].Message)
	}
	return nil
}

func (c *AdminClient) ProductVariants(ctx context.Context, merchant string) ([]platform.ProductVariant, error) {
	var data productListData
	err := c.doGraphQL(ctx, merchant, productListQuery, map[string]any{
		"first":         100,
		"variantsFirst": 100,
	}, &data)
	if err != nil {
		return nil, err
	}
	var variants []platform.ProductVariant
	for _, product := range data.Products.Nodes {
		for _, v := range product.Variants.Nodes {
			variants = append(variants, platform.ProductVariant{
				ProductID:    product.ID,
				VariantID:    v.ID,
				ProductTitle: product.Title,
				VariantTitle: v.Title,
				SKU:          v.SKU,
			})
		}
	}
	return variants, nil
}

// FulfillmentOrderID returns the empty string when the order has no open
// fulfillment orders.
func (c *AdminClient) FulfillmentOrderID(ctx context.Context, merchant, orderID string) (string, error) {
	var data fulfillmentOrderListData
	err := c.doGraphQL(ctx, merchant, fulfillmentOrderListQuery, map[string]any{
		"id": orderID,
	}, &data)
	if err != nil {
		return "", err
	}
	if data.Order == nil || len(data.Order.FulfillmentOrders.Edges) == 0 {
		return "", nil
	}
	return data.Order.FulfillmentOrders.Edges[0].Node.ID, nil
}

func (c *AdminClient) CreateFulfillment(ctx context.Context, merchant, fulfillmentOrderID string, tracking platform.TrackingInfo) error {
	var data fulfillmentCreateData
	err := c.doGraphQL(ctx, merchant, fulfillmentCreateQuery, map[string]any{
		"fulfillmentOrderId": fulfillmentOrderID,
		"company":            tracking.Company,
		"number":             tracking.Number,
		"url":                tracking.URL,
	}, &data)
	if err != nil {
		return err
	}
	if errs := data.FulfillmentCreate.UserErrors; len(errs) > 0 {
		return fmt.Errorf("create fulfillment: %s", errs[0].Message)
	}
	return nil
}
