package setup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSetupNotFound indicates no setup record exists for the merchant
	ErrSetupNotFound = errors.New("setup: no setup record for merchant")
	// ErrSetupIncomplete indicates an operation requires a completed
	// provisioning step but the merchant has not finished it
	ErrSetupIncomplete = errors.New("setup: provisioning step not completed")
	// ErrInvalidMerchant indicates an empty or malformed merchant key
	ErrInvalidMerchant = errors.New("setup: invalid merchant key")
)

// ShopSetup is the single per-merchant record tracking remote provisioning
// state. Identifiers stay nil until the corresponding remote resource has
// been resolved. Invariant: Step1Completed is only ever true when all three
// identifiers are non-nil.
type ShopSetup struct {
	ID                   uuid.UUID
	Merchant             string
	CarrierServiceID     *string
	FulfillmentServiceID *string
	OrderWebhookID       *string
	Step1Completed       bool
	Step2Completed       bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewShopSetup creates an empty setup record for a merchant
func NewShopSetup(merchant string) (*ShopSetup, error) {
	if merchant == "" {
		return nil, ErrInvalidMerchant
	}
	now := time.Now()
	return &ShopSetup{
		ID:        uuid.New(),
		Merchant:  merchant,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Provisioned reports whether all three remote identifiers are resolved and
// the provisioning step is marked complete.
func (s *ShopSetup) Provisioned() bool {
	return s.Step1Completed &&
		s.CarrierServiceID != nil &&
		s.FulfillmentServiceID != nil &&
		s.OrderWebhookID != nil
}

// CompleteProvisioning marks step 1 complete. All identifiers must be
// resolved first.
func (s *ShopSetup) CompleteProvisioning() error {
	if s.CarrierServiceID == nil || s.FulfillmentServiceID == nil || s.OrderWebhookID == nil {
		return ErrSetupIncomplete
	}
	s.Step1Completed = true
	s.UpdatedAt = time.Now()
	return nil
}

// Repository persists ShopSetup records. Upsert keyed by merchant is the
// sole mutation primitive; racing writers converge on a single surviving
// record.
type Repository interface {
	// FindByMerchant loads the merchant's setup record.
	// Returns ErrSetupNotFound when none exists.
	FindByMerchant(ctx context.Context, merchant string) (*ShopSetup, error)

	// Upsert inserts or replaces the merchant's setup record in one atomic
	// statement keyed by merchant.
	Upsert(ctx context.Context, s *ShopSetup) error
}
