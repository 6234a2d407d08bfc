package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/catalog"
	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
	"github.com/fulfillbridge/backend/internal/domain/setup"
)

// DecisionGateway asks the partner decision service whether it takes on an
// order.
type DecisionGateway interface {
	RequestFulfillment(ctx context.Context, orderID, orderName string, items []fulfillment.OrderLineItem) (bool, string, error)
}

// IngestionService turns inbound order events into local orders and forwards
// them for a fulfillment decision. Safe under at-least-once delivery: the
// order upsert and conflict-ignoring line-item insert absorb redelivery.
type IngestionService struct {
	setupRepo   setup.Repository
	productRepo catalog.Repository
	orderRepo   fulfillment.OrderRepository
	decision    DecisionGateway
	logger      *zap.Logger
}

func NewIngestionService(
	setupRepo setup.Repository,
	productRepo catalog.Repository,
	orderRepo fulfillment.OrderRepository,
	decision DecisionGateway,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		setupRepo:   setupRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		decision:    decision,
		logger:      logger,
	}
}

// Ingest processes one order event for a merchant. Events for merchants
// without a configured fulfillment service, or whose line items match no
// registration, are acknowledged without side effects.
func (s *IngestionService) Ingest(ctx context.Context, merchant string, event OrderEvent) (*IngestResult, error) {
	record, err := s.setupRepo.FindByMerchant(ctx, merchant)
	if errors.Is(err, setup.ErrSetupNotFound) {
		return &IngestResult{SkipReason: "merchant not set up"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load setup: %w", err)
	}
	if record.FulfillmentServiceID == nil {
		return &IngestResult{SkipReason: "no fulfillment service configured"}, nil
	}

	registered, err := s.productRepo.FindByFulfillmentService(ctx, merchant, *record.FulfillmentServiceID)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	owned := filterOwned(event, registered)
	if len(owned) == 0 {
		return &IngestResult{SkipReason: "no registered line items"}, nil
	}

	order, err := fulfillment.NewOrder(string(event.ID), merchant, event.Name, len(owned))
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Upsert(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	if err := s.orderRepo.InsertLineItems(ctx, owned); err != nil {
		return nil, fmt.Errorf("persist line items: %w", err)
	}

	result := &IngestResult{Processed: true, OwnedCount: len(owned)}

	// From here on the order is committed. A decision-service outage must
	// not fail the ingestion, only leave the order in CREATED.
	accepted, reason, err := s.decision.RequestFulfillment(ctx, order.ID, order.OrderNumber, owned)
	if err != nil {
		s.logger.Warn("fulfillment decision unavailable",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return result, nil
	}
	result.Forwarded = true
	result.Accepted = accepted

	if !accepted {
		s.logger.Info("fulfillment request declined",
			zap.String("order_id", order.ID),
			zap.String("reason", reason))
		return result, nil
	}

	err = s.orderRepo.UpdateStatus(ctx, order.ID, fulfillment.OrderStatusCreated, fulfillment.OrderStatusRequested)
	if err != nil {
		var invalid *fulfillment.InvalidTransitionError
		if errors.As(err, &invalid) {
			// Redelivered event for an order that already advanced.
			s.logger.Debug("order already past CREATED",
				zap.String("order_id", order.ID),
				zap.String("status", string(invalid.From)))
			return result, nil
		}
		return nil, fmt.Errorf("advance order status: %w", err)
	}

	s.logger.Info("order accepted for fulfillment",
		zap.String("merchant", merchant),
		zap.String("order_id", order.ID),
		zap.Int("owned_line_items", len(owned)))
	return result, nil
}

// filterOwned keeps the event's line items whose variant is registered,
// mapped to persistable line items.
func filterOwned(event OrderEvent, registered []catalog.RegisteredProduct) []fulfillment.OrderLineItem {
	variants := make(map[string]struct{}, len(registered))
	for _, p := range registered {
		variants[p.VariantID] = struct{}{}
	}

	var owned []fulfillment.OrderLineItem
	for _, item := range event.LineItems {
		if _, ok := variants[string(item.VariantID)]; !ok {
			continue
		}
		owned = append(owned, fulfillment.OrderLineItem{
			ID:       string(item.ID),
			OrderID:  string(event.ID),
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}
	return owned
}
