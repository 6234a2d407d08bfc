package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/platform"
	"github.com/fulfillbridge/backend/internal/domain/setup"
)

const adjustmentReason = "correction"

var (
	// ErrNoFulfillingLocation indicates the fulfillment service has no stock
	// location assigned yet
	ErrNoFulfillingLocation = errors.New("inventory: fulfillment service has no location")
	// ErrInventoryItemNotFound indicates a variant could not be resolved to
	// an inventory item
	ErrInventoryItemNotFound = errors.New("inventory: no inventory item for variant")
)

// FailurePolicy controls how the sequencer treats per-variant failures.
type FailurePolicy int

const (
	// BestEffort logs failures and keeps going; the sync never fails the
	// caller. Used for bulk post-registration sync.
	BestEffort FailurePolicy = iota
	// Strict stops at the first failure and surfaces it. Used for explicit
	// per-variant refreshes.
	Strict
)

// CalculationGateway queries the partner's sellable quantity for a SKU.
type CalculationGateway interface {
	InventoryLevel(ctx context.Context, sku string) (int, error)
}

// SyncService reconciles platform inventory with the partner's view. Stock
// is concentrated at the fulfillment service's own location: every other
// location is zeroed before the fulfilling location is activated, so a
// variant is never sellable from two places mid-sync.
type SyncService struct {
	setupRepo setup.Repository
	gateway   platform.AdminGateway
	calc      CalculationGateway
	logger    *zap.Logger
}

func NewSyncService(setupRepo setup.Repository, gateway platform.AdminGateway, calc CalculationGateway, logger *zap.Logger) *SyncService {
	return &SyncService{setupRepo: setupRepo, gateway: gateway, calc: calc, logger: logger}
}

// SyncVariants rehomes the given variants to the fulfilling location. Under
// BestEffort every failure is logged and swallowed; under Strict the first
// failure aborts the sync.
func (s *SyncService) SyncVariants(ctx context.Context, merchant string, variantIDs []string, policy FailurePolicy) error {
	if len(variantIDs) == 0 {
		return nil
	}

	fulfillingLocation, err := s.fulfillingLocation(ctx, merchant)
	if err != nil {
		if policy == Strict {
			return err
		}
		s.logger.Warn("inventory sync skipped",
			zap.String("merchant", merchant),
			zap.Error(err))
		return nil
	}

	items, err := s.gateway.InventoryItems(ctx, merchant, variantIDs)
	if err != nil {
		if policy == Strict {
			return fmt.Errorf("resolve inventory items: %w", err)
		}
		s.logger.Warn("inventory item lookup failed",
			zap.String("merchant", merchant),
			zap.Error(err))
		return nil
	}

	locations, err := s.gateway.Locations(ctx, merchant)
	if err != nil {
		if policy == Strict {
			return fmt.Errorf("list locations: %w", err)
		}
		s.logger.Warn("location lookup failed",
			zap.String("merchant", merchant),
			zap.Error(err))
		return nil
	}

	for _, variantID := range variantIDs {
		if err := s.rehomeVariant(ctx, merchant, variantID, items, locations, fulfillingLocation); err != nil {
			if policy == Strict {
				return err
			}
			s.logger.Warn("variant sync failed",
				zap.String("merchant", merchant),
				zap.String("variant_id", variantID),
				zap.Error(err))
		}
	}
	return nil
}

// rehomeVariant zeroes the variant at every non-fulfilling location before
// activating it at the fulfilling one. Ordering matters: a failure after the
// zeroing leaves the variant unsellable rather than doubly stocked.
func (s *SyncService) rehomeVariant(
	ctx context.Context,
	merchant, variantID string,
	items map[string]string,
	locations []platform.Location,
	fulfillingLocation string,
) error {
	itemID, ok := items[variantID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInventoryItemNotFound, variantID)
	}

	for _, loc := range locations {
		if loc.ID == fulfillingLocation {
			continue
		}
		if err := s.gateway.SetInventoryQuantity(ctx, merchant, itemID, loc.ID, 0, adjustmentReason); err != nil {
			return fmt.Errorf("zero inventory at %s: %w", loc.ID, err)
		}
	}

	if err := s.gateway.ActivateInventory(ctx, merchant, itemID, fulfillingLocation); err != nil {
		return fmt.Errorf("activate inventory: %w", err)
	}
	return nil
}

// UpdateVariantInventory refreshes one variant's quantity at the fulfilling
// location from the partner's calculation service. All failures are fatal.
func (s *SyncService) UpdateVariantInventory(ctx context.Context, merchant, variantID, sku string) (int, error) {
	fulfillingLocation, err := s.fulfillingLocation(ctx, merchant)
	if err != nil {
		return 0, err
	}

	quantity, err := s.calc.InventoryLevel(ctx, sku)
	if err != nil {
		return 0, fmt.Errorf("calculate inventory for %s: %w", sku, err)
	}

	items, err := s.gateway.InventoryItems(ctx, merchant, []string{variantID})
	if err != nil {
		return 0, fmt.Errorf("resolve inventory item: %w", err)
	}
	itemID, ok := items[variantID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInventoryItemNotFound, variantID)
	}

	if err := s.gateway.SetInventoryQuantity(ctx, merchant, itemID, fulfillingLocation, quantity, adjustmentReason); err != nil {
		return 0, fmt.Errorf("set inventory quantity: %w", err)
	}

	s.logger.Info("variant inventory updated",
		zap.String("merchant", merchant),
		zap.String("variant_id", variantID),
		zap.String("sku", sku),
		zap.Int("quantity", quantity))
	return quantity, nil
}

func (s *SyncService) fulfillingLocation(ctx context.Context, merchant string) (string, error) {
	record, err := s.setupRepo.FindByMerchant(ctx, merchant)
	if err != nil {
		return "", err
	}
	if record.FulfillmentServiceID == nil {
		return "", setup.ErrSetupIncomplete
	}

	location, err := s.gateway.FulfillmentServiceLocation(ctx, merchant, *record.FulfillmentServiceID)
	if err != nil {
		return "", fmt.Errorf("resolve fulfilling location: %w", err)
	}
	if location == "" {
		return "", ErrNoFulfillingLocation
	}
	return location, nil
}
