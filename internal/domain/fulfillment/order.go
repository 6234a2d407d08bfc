package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOrderNotFound indicates the order does not exist locally
	ErrOrderNotFound = errors.New("fulfillment: order not found")
	// ErrInvalidOrder indicates an order with missing identifiers
	ErrInvalidOrder = errors.New("fulfillment: order id and merchant are required")
	// ErrNoOwnedLineItems guards the invariant that an order with zero owned
	// line items is never created
	ErrNoOwnedLineItems = errors.New("fulfillment: order has no owned line items")
)

// InvalidTransitionError is returned when a status change would move an
// order backwards or skip a stage.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("fulfillment: invalid status transition %s -> %s", e.From, e.To)
}

// OrderStatus is the local fulfillment state of an order. Transitions are
// monotonic: CREATED -> REQUESTED -> FULFILLED.
type OrderStatus string

const (
	// OrderStatusCreated indicates the order was ingested and persisted
	OrderStatusCreated OrderStatus = "CREATED"
	// OrderStatusRequested indicates the decision service accepted the
	// fulfillment request
	OrderStatusRequested OrderStatus = "REQUESTED"
	// OrderStatusFulfilled indicates tracking was issued and the remote
	// fulfillment was created
	OrderStatusFulfilled OrderStatus = "FULFILLED"
)

// IsValid returns true if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusRequested, OrderStatusFulfilled:
		return true
	default:
		return false
	}
}

// rank orders statuses for the monotonic-transition check
func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusCreated:
		return 0
	case OrderStatusRequested:
		return 1
	case OrderStatusFulfilled:
		return 2
	default:
		return -1
	}
}

// CanTransitionTo reports whether the status may advance to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return next.IsValid() && s.IsValid() && next.rank() == s.rank()+1
}

// Order is an inbound order relevant to remote fulfillment. ID is the
// remote order identifier; LineItemCount counts only owned line items.
type Order struct {
	ID            string
	Merchant      string
	OrderNumber   string
	LineItemCount int
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder creates an order in CREATED state. ownedCount must be positive:
// an order with zero owned line items is never materialized.
func NewOrder(id, merchant, orderNumber string, ownedCount int) (*Order, error) {
	if id == "" || merchant == "" {
		return nil, ErrInvalidOrder
	}
	if ownedCount <= 0 {
		return nil, ErrNoOwnedLineItems
	}
	now := time.Now()
	return &Order{
		ID:            id,
		Merchant:      merchant,
		OrderNumber:   orderNumber,
		LineItemCount: ownedCount,
		Status:        OrderStatusCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Transition advances the order's status, enforcing monotonicity.
func (o *Order) Transition(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return nil
}

// OrderLineItem is one owned line item of an order. ID is the remote
// line-item identifier. Line items are insert-only.
type OrderLineItem struct {
	ID       string
	OrderID  string
	SKU      string
	Quantity int
}

// OrderRepository persists orders and their line items. Upsert keyed by the
// remote order id is the idempotency boundary for at-least-once event
// delivery.
type OrderRepository interface {
	// FindByID loads an order. Returns ErrOrderNotFound when absent.
	FindByID(ctx context.Context, id string) (*Order, error)

	// ListByMerchant lists a merchant's orders, newest first.
	ListByMerchant(ctx context.Context, merchant string) ([]Order, error)

	// Upsert inserts or replaces the order keyed by its remote id.
	Upsert(ctx context.Context, o *Order) error

	// InsertLineItems inserts line items, ignoring ones that already exist
	// so event redelivery never duplicates rows.
	InsertLineItems(ctx context.Context, items []OrderLineItem) error

	// UpdateStatus advances an order from one status to the next. The guard
	// on the current status keeps the transition monotonic under redelivery.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error
}
