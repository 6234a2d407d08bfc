package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidRegistration indicates a registration with missing identifiers
	ErrInvalidRegistration = errors.New("catalog: product and variant identifiers are required")
	// ErrNoSelection indicates a registration request without any products
	ErrNoSelection = errors.New("catalog: at least one product must be selected")
	// ErrRegistrationNotFound indicates no registration exists for a
	// (product, variant) pair
	ErrRegistrationNotFound = errors.New("catalog: registration not found")
)

// DuplicateRegistrationError is returned when one or more submitted
// (product, variant) pairs are already registered. It names the conflicting
// items so the caller can surface an actionable message.
type DuplicateRegistrationError struct {
	Titles []string
}

// Error implements the error interface
func (e *DuplicateRegistrationError) Error() string {
	if len(e.Titles) == 1 {
		return fmt.Sprintf("catalog: product already registered: %s", e.Titles[0])
	}
	return fmt.Sprintf("catalog: products already registered: %v", e.Titles)
}

// VariantKey identifies a (product, variant) pair within a merchant.
type VariantKey struct {
	ProductID string
	VariantID string
}

// RegisteredProduct is a (product, variant) pair the merchant has opted into
// remote fulfillment for, with denormalized display fields captured at
// registration time. (Merchant, ProductID, VariantID) is unique.
type RegisteredProduct struct {
	ID                   uuid.UUID
	Merchant             string
	ProductID            string
	VariantID            string
	ProductTitle         string
	VariantTitle         string
	Title                string
	SKU                  string
	FulfillmentServiceID string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewRegisteredProduct creates a registration for a (product, variant) pair.
// fulfillmentServiceID is the service active for the merchant at
// registration time.
func NewRegisteredProduct(merchant, productID, variantID, productTitle, variantTitle, sku, fulfillmentServiceID string) (*RegisteredProduct, error) {
	if merchant == "" || productID == "" || variantID == "" {
		return nil, ErrInvalidRegistration
	}
	now := time.Now()
	return &RegisteredProduct{
		ID:                   uuid.New(),
		Merchant:             merchant,
		ProductID:            productID,
		VariantID:            variantID,
		ProductTitle:         productTitle,
		VariantTitle:         variantTitle,
		Title:                productTitle + " - " + variantTitle,
		SKU:                  sku,
		FulfillmentServiceID: fulfillmentServiceID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// Key returns the (product, variant) key of the registration
func (p *RegisteredProduct) Key() VariantKey {
	return VariantKey{ProductID: p.ProductID, VariantID: p.VariantID}
}

// Repository persists product registrations. Registrations are insert-only;
// nothing in the normal flow mutates or deletes them.
type Repository interface {
	// FindByMerchant lists all of a merchant's registrations.
	FindByMerchant(ctx context.Context, merchant string) ([]RegisteredProduct, error)

	// FindByFulfillmentService lists the merchant's registrations bound to a
	// fulfillment service.
	FindByFulfillmentService(ctx context.Context, merchant, fulfillmentServiceID string) ([]RegisteredProduct, error)

	// FindByKeys returns the subset of the given (product, variant) pairs
	// that are already registered for the merchant.
	FindByKeys(ctx context.Context, merchant string, keys []VariantKey) ([]RegisteredProduct, error)

	// CreateBatch inserts a batch of registrations.
	CreateBatch(ctx context.Context, products []RegisteredProduct) error
}
