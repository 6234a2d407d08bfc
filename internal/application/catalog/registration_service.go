package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/application/inventory"
	"github.com/fulfillbridge/backend/internal/domain/catalog"
	"github.com/fulfillbridge/backend/internal/domain/platform"
	"github.com/fulfillbridge/backend/internal/domain/setup"
)

// Selection is one (product, variant) pair the merchant picked for
// registration, with the display fields captured from the listing.
type Selection struct {
	ProductID    string
	VariantID    string
	ProductTitle string
	VariantTitle string
	SKU          string
}

// ProductListing splits the merchant's catalog into variants already
// registered and variants still available.
type ProductListing struct {
	Added     []catalog.RegisteredProduct
	Available []platform.ProductVariant
}

// InventorySynchronizer triggers an inventory sync for a set of variants.
type InventorySynchronizer interface {
	SyncVariants(ctx context.Context, merchant string, variantIDs []string, policy inventory.FailurePolicy) error
}

// RegistrationService manages which of a merchant's products the partner
// fulfills.
type RegistrationService struct {
	setupRepo   setup.Repository
	productRepo catalog.Repository
	gateway     platform.AdminGateway
	syncer      InventorySynchronizer
	logger      *zap.Logger
}

func NewRegistrationService(
	setupRepo setup.Repository,
	productRepo catalog.Repository,
	gateway platform.AdminGateway,
	syncer InventorySynchronizer,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		setupRepo:   setupRepo,
		productRepo: productRepo,
		gateway:     gateway,
		syncer:      syncer,
		logger:      logger,
	}
}

// ListProducts merges the platform catalog with local registrations.
func (s *RegistrationService) ListProducts(ctx context.Context, merchant string) (*ProductListing, error) {
	registered, err := s.productRepo.FindByMerchant(ctx, merchant)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	variants, err := s.gateway.ProductVariants(ctx, merchant)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	taken := make(map[catalog.VariantKey]struct{}, len(registered))
	for _, p := range registered {
		taken[p.Key()] = struct{}{}
	}

	listing := &ProductListing{Added: registered}
	for _, v := range variants {
		key := catalog.VariantKey{ProductID: v.ProductID, VariantID: v.VariantID}
		if _, ok := taken[key]; ok {
			continue
		}
		listing.Available = append(listing.Available, v)
	}
	return listing, nil
}

// RegisterProducts registers the selections for remote fulfillment,
// marks the merchant's product step complete, and kicks off a best-effort
// inventory sync for the new variants. Any selection that is already
// registered rejects the whole batch before anything is persisted.
func (s *RegistrationService) RegisterProducts(ctx context.Context, merchant string, selections []Selection) ([]catalog.RegisteredProduct, error) {
	if len(selections) == 0 {
		return nil, catalog.ErrNoSelection
	}

	record, err := s.setupRepo.FindByMerchant(ctx, merchant)
	if err != nil {
		return nil, err
	}
	if record.FulfillmentServiceID == nil {
		return nil, setup.ErrSetupIncomplete
	}

	keys := make([]catalog.VariantKey, len(selections))
	for i, sel := range selections {
		keys[i] = catalog.VariantKey{ProductID: sel.ProductID, VariantID: sel.VariantID}
	}
	existing, err := s.productRepo.FindByKeys(ctx, merchant, keys)
	if err != nil {
		return nil, fmt.Errorf("check registrations: %w", err)
	}
	if len(existing) > 0 {
		titles := make([]string, len(existing))
		for i, p := range existing {
			titles[i] = p.Title
		}
		return nil, &catalog.DuplicateRegistrationError{Titles: titles}
	}

	products := make([]catalog.RegisteredProduct, 0, len(selections))
	variantIDs := make([]string, 0, len(selections))
	for _, sel := range selections {
		p, err := catalog.NewRegisteredProduct(merchant, sel.ProductID, sel.VariantID,
			sel.ProductTitle, sel.VariantTitle, sel.SKU, *record.FulfillmentServiceID)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
		variantIDs = append(variantIDs, sel.VariantID)
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return nil, fmt.Errorf("persist registrations: %w", err)
	}

	if !record.Step2Completed {
		record.Step2Completed = true
		if err := s.setupRepo.Upsert(ctx, record); err != nil {
			// Registrations are already committed; the flag converges on the
			// next registration.
			s.logger.Warn("failed to mark product step complete",
				zap.String("merchant", merchant),
				zap.Error(err))
		}
	}

	if err := s.syncer.SyncVariants(ctx, merchant, variantIDs, inventory.BestEffort); err != nil {
		s.logger.Warn("post-registration inventory sync failed",
			zap.String("merchant", merchant),
			zap.Error(err))
	}

	s.logger.Info("products registered",
		zap.String("merchant", merchant),
		zap.Int("count", len(products)))
	return products, nil
}

// FindRegistration looks up one registration by its variant key.
func (s *RegistrationService) FindRegistration(ctx context.Context, merchant, productID, variantID string) (*catalog.RegisteredProduct, error) {
	matches, err := s.productRepo.FindByKeys(ctx, merchant, []catalog.VariantKey{
		{ProductID: productID, VariantID: variantID},
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, catalog.ErrRegistrationNotFound
	}
	return &matches[0], nil
}
