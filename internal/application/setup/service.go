package setup

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/platform"
	"github.com/fulfillbridge/backend/internal/domain/setup"
)

// ProvisionConfig carries the resource names and callback URLs used when
// provisioning a merchant.
type ProvisionConfig struct {
	FulfillmentServiceName string
	CarrierServiceName     string
	WebhookTopic           string
	CallbackURL            string
	CarrierCallbackURL     string
}

// Service orchestrates merchant provisioning: three remote resources plus
// one local record tracking them.
type Service struct {
	repo     setup.Repository
	resolver *Resolver
	cfg      ProvisionConfig
	logger   *zap.Logger
}

func NewService(repo setup.Repository, resolver *Resolver, cfg ProvisionConfig, logger *zap.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, cfg: cfg, logger: logger}
}

// GetSetup loads the merchant's setup record.
func (s *Service) GetSetup(ctx context.Context, merchant string) (*setup.ShopSetup, error) {
	return s.repo.FindByMerchant(ctx, merchant)
}

// EnsureProvisioned makes sure the merchant's webhook, fulfillment service
// and carrier service all exist remotely and are recorded locally. The
// operation is idempotent: a fully provisioned merchant makes zero remote
// calls, and a partially provisioned one only resolves the missing
// resources.
func (s *Service) EnsureProvisioned(ctx context.Context, merchant string) (*setup.ShopSetup, error) {
	record, err := s.repo.FindByMerchant(ctx, merchant)
	switch {
	case errors.Is(err, setup.ErrSetupNotFound):
		record, err = setup.NewShopSetup(merchant)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("load setup: %w", err)
	}

	if record.Provisioned() {
		return record, nil
	}

	if err := s.resolveMissing(ctx, merchant, record); err != nil {
		// Persist whatever resolved so the next attempt skips it. The
		// record stays incomplete; failure here is secondary to err.
		if upsertErr := s.repo.Upsert(ctx, record); upsertErr != nil {
			s.logger.Warn("failed to persist partial setup",
				zap.String("merchant", merchant),
				zap.Error(upsertErr))
		}
		return nil, err
	}

	if err := record.CompleteProvisioning(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("persist setup: %w", err)
	}

	s.logger.Info("merchant provisioned",
		zap.String("merchant", merchant),
		zap.Stringp("carrier_service_id", record.CarrierServiceID),
		zap.Stringp("fulfillment_service_id", record.FulfillmentServiceID),
		zap.Stringp("order_webhook_id", record.OrderWebhookID))
	return record, nil
}

func (s *Service) resolveMissing(ctx context.Context, merchant string, record *setup.ShopSetup) error {
	if record.OrderWebhookID == nil {
		id, err := s.resolver.ResolveWebhookSubscription(ctx, merchant, platform.WebhookSubscriptionConfig{
			Topic:       s.cfg.WebhookTopic,
			CallbackURL: s.cfg.CallbackURL + "/webhooks/orders/create",
			Format:      "JSON",
		})
		if err != nil {
			return err
		}
		record.OrderWebhookID = &id
	}

	if record.FulfillmentServiceID == nil {
		id, err := s.resolver.ResolveFulfillmentService(ctx, merchant, platform.FulfillmentServiceConfig{
			Name:                   s.cfg.FulfillmentServiceName,
			CallbackURL:            s.cfg.CallbackURL,
			TrackingSupport:        true,
			InventoryManagement:    true,
			RequiresShippingMethod: false,
		})
		if err != nil {
			return err
		}
		record.FulfillmentServiceID = &id
	}

	if record.CarrierServiceID == nil {
		id, err := s.resolver.ResolveCarrierService(ctx, merchant, platform.CarrierServiceConfig{
			Name:                     s.cfg.CarrierServiceName,
			CallbackURL:              s.cfg.CarrierCallbackURL,
			Active:                   true,
			SupportsServiceDiscovery: true,
		})
		if err != nil {
			return err
		}
		record.CarrierServiceID = &id
	}

	return nil
}
