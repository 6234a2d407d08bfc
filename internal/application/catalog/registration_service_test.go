package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/application/inventory"
	"github.com/fulfillbridge/backend/internal/domain/catalog"
	"github.com/fulfillbridge/backend/internal/domain/platform"
	"github.com/fulfillbridge/backend/internal/domain/setup"
	"github.com/fulfillbridge/backend/tests/testutil"
)

// MockSetupRepository is a mock implementation of setup.Repository
type MockSetupRepository struct {
	mock.Mock
}

func (m *MockSetupRepository) FindByMerchant(ctx context.Context, merchant string) (*setup.ShopSetup, error) {
	args := m.Called(ctx, merchant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*setup.ShopSetup), args.Error(1)
}

func (m *MockSetupRepository) Upsert(ctx context.Context, s *setup.ShopSetup) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.Repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByMerchant(ctx context.Context, merchant string) ([]catalog.RegisteredProduct, error) {
	args := m.Called(ctx, merchant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.RegisteredProduct), args.Error(1)
}

func (m *MockProductRepository) FindByFulfillmentService(ctx context.Context, merchant, fulfillmentServiceID string) ([]catalog.RegisteredProduct, error) {
	args := m.Called(ctx, merchant, fulfillmentServiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.RegisteredProduct), args.Error(1)
}

func (m *MockProductRepository) FindByKeys(ctx context.Context, merchant string, keys []catalog.VariantKey) ([]catalog.RegisteredProduct, error) {
	args := m.Called(ctx, merchant, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.RegisteredProduct), args.Error(1)
}

func (m *MockProductRepository) CreateBatch(ctx context.Context, products []catalog.RegisteredProduct) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// MockInventorySynchronizer is a mock implementation of InventorySynchronizer
type MockInventorySynchronizer struct {
	mock.Mock
}

func (m *MockInventorySynchronizer) SyncVariants(ctx context.Context, merchant string, variantIDs []string, policy inventory.FailurePolicy) error {
	args := m.Called(ctx, merchant, variantIDs, policy)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func configuredSetup(merchant string) *setup.ShopSetup {
	record, _ := setup.NewShopSetup(merchant)
	record.FulfillmentServiceID = strPtr("gid://fs/1")
	record.Step1Completed = true
	return record
}

func registered(merchant, productID, variantID, productTitle, variantTitle string) catalog.RegisteredProduct {
	p, _ := catalog.NewRegisteredProduct(merchant, productID, variantID, productTitle, variantTitle, "SKU", "gid://fs/1")
	return *p
}

type regFixture struct {
	setupRepo   *MockSetupRepository
	productRepo *MockProductRepository
	gateway     *testutil.MockAdminGateway
	syncer      *MockInventorySynchronizer
	svc         *RegistrationService
}

func newRegFixture() *regFixture {
	f := &regFixture{
		setupRepo:   new(MockSetupRepository),
		productRepo: new(MockProductRepository),
		gateway:     new(testutil.MockAdminGateway),
		syncer:      new(MockInventorySynchronizer),
	}
	f.svc = NewRegistrationService(f.setupRepo, f.productRepo, f.gateway, f.syncer, zap.NewNop())
	return f
}

func TestListProducts_SplitsAddedAndAvailable(t *testing.T) {
	f := newRegFixture()
	f.productRepo.On("FindByMerchant", mock.Anything, "shop.example.com").
		Return([]catalog.RegisteredProduct{
			registered("shop.example.com", "gid://product/1", "gid://variant/1", "Mug", "Blue"),
		}, nil)
	f.gateway.On("ProductVariants", mock.Anything, "shop.example.com").
		Return([]platform.ProductVariant{
			{ProductID: "gid://product/1", VariantID: "gid://variant/1", ProductTitle: "Mug", VariantTitle: "Blue"},
			{ProductID: "gid://product/1", VariantID: "gid://variant/2", ProductTitle: "Mug", VariantTitle: "Red"},
		}, nil)

	listing, err := f.svc.ListProducts(context.Background(), "shop.example.com")
	require.NoError(t, err)
	require.Len(t, listing.Added, 1)
	require.Len(t, listing.Available, 1)
	assert.Equal(t, "gid://variant/2", listing.Available[0].VariantID)
}

func TestRegisterProducts_EmptySelection(t *testing.T) {
	f := newRegFixture()
	_, err := f.svc.RegisterProducts(context.Background(), "shop.example.com", nil)
	assert.ErrorIs(t, err, catalog.ErrNoSelection)
}

func TestRegisterProducts_RequiresFulfillmentService(t *testing.T) {
	f := newRegFixture()
	record, _ := setup.NewShopSetup("shop.example.com")
	f.setupRepo.On("FindByMerchant", mock.Anything, "shop.example.com").Return(record, nil)

	_, err := f.svc.RegisterProducts(context.Background(), "shop.example.com", []Selection{
		{ProductID: "gid://product/1", VariantID: "gid://variant/1"},
	})
	assert.ErrorIs(t, err, setup.ErrSetupIncomplete)
}

func TestRegisterProducts_DuplicateRejectedWithTitles(t *testing.T) {
	f := newRegFixture()
	f.setupRepo.On("FindByMerchant", mock.Anything, "shop.example.com").
		Return(configuredSetup("shop.example.com"), nil)
	f.productRepo.On("FindByKeys", mock.Anything, "shop.example.com", mock.Anything).
		Return([]catalog.RegisteredProduct{
			registered("shop.example.com", "gid://product/1", "gid://variant/1", "Mug", "Blue"),
		}, nil)

	_, err := f.svc.RegisterProducts(context.Background(), "shop.example.com", []Selection{
		{ProductID: "gid://product/1", VariantID: "gid://variant/1", ProductTitle: "Mug", VariantTitle: "Blue"},
		{ProductID: "gid://product/2", VariantID: "gid://variant/2", ProductTitle: "Cap", VariantTitle: "One Size"},
	})
	require.Error(t, err)

	var dup *catalog.DuplicateRegistrationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"Mug - Blue"}, dup.Titles)

	// nothing persisted, no sync attempted
	f.productRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.syncer.AssertNotCalled(t, "SyncVariants", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterProducts_PersistsAndSyncs(t *testing.T) {
	f := newRegFixture()
	f.setupRepo.On("FindByMerchant", mock.Anything, "shop.example.com").
		Return(configuredSetup("shop.example.com"), nil)
	f.productRepo.On("FindByKeys", mock.Anything, "shop.example.com", mock.Anything).
		Return([]catalog.RegisteredProduct{}, nil)
	f.productRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(products []catalog.RegisteredProduct) bool {
		return len(products) == 2 &&
			products[0].Title == "Mug - Blue" &&
			products[0].FulfillmentServiceID == "gid://fs/1"
	})).Return(nil).Once()
	f.setupRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *setup.ShopSetup) bool {
		return s.Step2Completed
	})).Return(nil).Once()
	f.syncer.On("SyncVariants", mock.Anything, "shop.example.com",
		[]string{"gid://variant/1", "gid://variant/2"}, inventory.BestEffort).Return(nil).Once()

	products, err := f.svc.RegisterProducts(context.Background(), "shop.example.com", []Selection{
		{ProductID: "gid://product/1", VariantID: "gid://variant/1", ProductTitle: "Mug", VariantTitle: "Blue", SKU: "SKU-A"},
		{ProductID: "gid://product/2", VariantID: "gid://variant/2", ProductTitle: "Cap", VariantTitle: "One Size", SKU: "SKU-B"},
	})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	f.productRepo.AssertExpectations(t)
	f.setupRepo.AssertExpectations(t)
	f.syncer.AssertExpectations(t)
}

func TestRegisterProducts_SyncFailureDoesNotFailRegistration(t *testing.T) {
	f := newRegFixture()
	f.setupRepo.On("FindByMerchant", mock.Anything, "shop.example.com").
		Return(configuredSetup("shop.example.com"), nil)
	f.productRepo.On("FindByKeys", mock.Anything, "shop.example.com", mock.Anything).
		Return([]catalog.RegisteredProduct{}, nil)
	f.productRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.setupRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.syncer.On("SyncVariants", mock.Anything, "shop.example.com", mock.Anything, inventory.BestEffort).
		Return(assert.AnError)

	products, err := f.svc.RegisterProducts(context.Background(), "shop.example.com", []Selection{
		{ProductID: "gid://product/1", VariantID: "gid://variant/1", ProductTitle: "Mug", VariantTitle: "Blue"},
	})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestFindRegistration(t *testing.T) {
	f := newRegFixture()
	want := registered("shop.example.com", "gid://product/1", "gid://variant/1", "Mug", "Blue")
	f.productRepo.On("FindByKeys", mock.Anything, "shop.example.com",
		[]catalog.VariantKey{{ProductID: "gid://product/1", VariantID: "gid://variant/1"}}).
		Return([]catalog.RegisteredProduct{want}, nil)

	got, err := f.svc.FindRegistration(context.Background(), "shop.example.com", "gid://product/1", "gid://variant/1")
	require.NoError(t, err)
	assert.Equal(t, want.Title, got.Title)

	f.productRepo.On("FindByKeys", mock.Anything, "shop.example.com",
		[]catalog.VariantKey{{ProductID: "gid://product/9", VariantID: "gid://variant/9"}}).
		Return([]catalog.RegisteredProduct{}, nil)

	_, err = f.svc.FindRegistration(context.Background(), "shop.example.com", "gid://product/9", "gid://variant/9")
	assert.ErrorIs(t, err, catalog.ErrRegistrationNotFound)
}
