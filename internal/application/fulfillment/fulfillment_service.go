package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
	"github.com/fulfillbridge/backend/internal/domain/platform"
)

var (
	// ErrOrderNotRequested indicates a fulfillment was attempted on an order
	// the decision service never accepted
	ErrOrderNotRequested = errors.New("fulfillment: order is not in REQUESTED state")
	// ErrNoFulfillmentOrder indicates the platform has no open fulfillment
	// order to attach tracking to
	ErrNoFulfillmentOrder = errors.New("fulfillment: no open remote fulfillment order")
)

// TrackingGateway requests shipment from the partner tracking service.
type TrackingGateway interface {
	FulfillOrder(ctx context.Context, orderID string) (platform.TrackingInfo, error)
}

// Service completes accepted orders: it obtains tracking from the partner,
// records the fulfillment on the platform, and advances the local status.
type Service struct {
	orderRepo fulfillment.OrderRepository
	gateway   platform.AdminGateway
	tracking  TrackingGateway
	logger    *zap.Logger
}

func NewService(
	orderRepo fulfillment.OrderRepository,
	gateway platform.AdminGateway,
	tracking TrackingGateway,
	logger *zap.Logger,
) *Service {
	return &Service{
		orderRepo: orderRepo,
		gateway:   gateway,
		tracking:  tracking,
		logger:    logger,
	}
}

// ListOrders returns the merchant's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, merchant string) ([]fulfillment.Order, error) {
	return s.orderRepo.ListByMerchant(ctx, merchant)
}

// FulfillOrder ships an accepted order and returns the tracking info
// assigned by the partner.
func (s *Service) FulfillOrder(ctx context.Context, merchant, orderID string) (platform.TrackingInfo, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return platform.TrackingInfo{}, err
	}
	if order.Merchant != merchant {
		return platform.TrackingInfo{}, fulfillment.ErrOrderNotFound
	}
	if order.Status != fulfillment.OrderStatusRequested {
		return platform.TrackingInfo{}, fmt.Errorf("%w: order %s is %s", ErrOrderNotRequested, orderID, order.Status)
	}

	tracking, err := s.tracking.FulfillOrder(ctx, orderID)
	if err != nil {
		return platform.TrackingInfo{}, fmt.Errorf("request tracking: %w", err)
	}

	fulfillmentOrderID, err := s.gateway.FulfillmentOrderID(ctx, merchant, orderID)
	if err != nil {
		return platform.TrackingInfo{}, fmt.Errorf("resolve fulfillment order: %w", err)
	}
	if fulfillmentOrderID == "" {
		return platform.TrackingInfo{}, ErrNoFulfillmentOrder
	}

	if err := s.gateway.CreateFulfillment(ctx, merchant, fulfillmentOrderID, tracking); err != nil {
		return platform.TrackingInfo{}, fmt.Errorf("create fulfillment: %w", err)
	}

	err = s.orderRepo.UpdateStatus(ctx, orderID, fulfillment.OrderStatusRequested, fulfillment.OrderStatusFulfilled)
	if err != nil {
		return platform.TrackingInfo{}, fmt.Errorf("advance order status: %w", err)
	}

	s.logger.Info("order fulfilled",
		zap.String("merchant", merchant),
		zap.String("order_id", orderID),
		zap.String("tracking_number", tracking.Number))
	return tracking, nil
}
