package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/application/fulfillment"
	"github.com/fulfillbridge/backend/internal/infrastructure/cache"
	"github.com/fulfillbridge/backend/tests/testutil"
)

type MockOrderIngestor struct {
	mock.Mock
}

func (m *MockOrderIngestor) Ingest(ctx context.Context, merchant string, event fulfillment.OrderEvent) (*fulfillment.IngestResult, error) {
	args := m.Called(ctx, merchant, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.IngestResult), args.Error(1)
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookRequest(t *testing.T, secret, merchant, eventID string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(HeaderWebhookHMAC, signBody(secret, body))
	}
	if merchant != "" {
		req.Header.Set(HeaderWebhookShop, merchant)
	}
	if eventID != "" {
		req.Header.Set(HeaderWebhookID, eventID)
	}
	return req
}

func orderPayload() map[string]any {
	return map[string]any{
		"id":   "order/1",
		"name": "#1001",
		"line_items": []map[string]any{
			{"id": "li/1", "product_id": "product/1", "variant_id": "variant/1", "sku": "SKU-1", "quantity": 2},
		},
	}
}

func TestWebhookOrderCreated_ProcessesVerifiedEvent(t *testing.T) {
	ingestor := new(MockOrderIngestor)
	ingestor.On("Ingest", mock.Anything, "shop.example.com", mock.MatchedBy(func(e fulfillment.OrderEvent) bool {
		return e.ID == "order/1" && len(e.LineItems) == 1 && e.LineItems[0].Quantity == 2
	})).Return(&fulfillment.IngestResult{Processed: true, OwnedCount: 1, Accepted: true, Forwarded: true}, nil)

	h := NewWebhookHandler(ingestor, cache.NewInMemoryIdempotencyStore(), "secret", time.Hour, zap.NewNop())
	tc := testutil.NewTestContextWithRequest(t, webhookRequest(t, "secret", "shop.example.com", "evt-1", orderPayload()))

	h.OrderCreated(tc.Context)

	assert.Equal(t, http.StatusOK, tc.Recorder.Code)
	var ack WebhookAck
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &ack))
	assert.Equal(t, "processed", ack.Status)
	ingestor.AssertExpectations(t)
}

func TestWebhookOrderCreated_RejectsBadSignature(t *testing.T) {
	ingestor := new(MockOrderIngestor)
	h := NewWebhookHandler(ingestor, cache.NewInMemoryIdempotencyStore(), "secret", time.Hour, zap.NewNop())

	req := webhookRequest(t, "wrong-secret", "shop.example.com", "evt-1", orderPayload())
	tc := testutil.NewTestContextWithRequest(t, req)

	h.OrderCreated(tc.Context)

	assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
	ingestor.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookOrderCreated_DuplicateDeliveryAcknowledged(t *testing.T) {
	ingestor := new(MockOrderIngestor)
	ingestor.On("Ingest", mock.Anything, "shop.example.com", mock.Anything).
		Return(&fulfillment.IngestResult{Processed: true}, nil).Once()

	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	h := NewWebhookHandler(ingestor, store, "secret", time.Hour, zap.NewNop())

	first := testutil.NewTestContextWithRequest(t, webhookRequest(t, "secret", "shop.example.com", "evt-dup", orderPayload()))
	h.OrderCreated(first.Context)
	require.Equal(t, http.StatusOK, first.Recorder.Code)

	second := testutil.NewTestContextWithRequest(t, webhookRequest(t, "secret", "shop.example.com", "evt-dup", orderPayload()))
	h.OrderCreated(second.Context)

	assert.Equal(t, http.StatusOK, second.Recorder.Code)
	var ack WebhookAck
	require.NoError(t, json.Unmarshal(second.Recorder.Body.Bytes(), &ack))
	assert.Equal(t, "duplicate", ack.Status)
	ingestor.AssertExpectations(t)
}

func TestWebhookOrderCreated_SkippedEventStillAcknowledged(t *testing.T) {
	ingestor := new(MockOrderIngestor)
	ingestor.On("Ingest", mock.Anything, "shop.example.com", mock.Anything).
		Return(&fulfillment.IngestResult{Processed: false, SkipReason: "no registered line items"}, nil)

	h := NewWebhookHandler(ingestor, cache.NewInMemoryIdempotencyStore(), "secret", time.Hour, zap.NewNop())
	tc := testutil.NewTestContextWithRequest(t, webhookRequest(t, "secret", "shop.example.com", "evt-2", orderPayload()))

	h.OrderCreated(tc.Context)

	assert.Equal(t, http.StatusOK, tc.Recorder.Code)
	var ack WebhookAck
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &ack))
	assert.Equal(t, "skipped", ack.Status)
	assert.Equal(t, "no registered line items", ack.Reason)
}

func TestWebhookOrderCreated_IngestionFaultReturns500(t *testing.T) {
	ingestor := new(MockOrderIngestor)
	ingestor.On("Ingest", mock.Anything, "shop.example.com", mock.Anything).
		Return(nil, errors.New("db down"))

	h := NewWebhookHandler(ingestor, cache.NewInMemoryIdempotencyStore(), "secret", time.Hour, zap.NewNop())
	tc := testutil.NewTestContextWithRequest(t, webhookRequest(t, "secret", "shop.example.com", "evt-3", orderPayload()))

	h.OrderCreated(tc.Context)

	assert.Equal(t, http.StatusInternalServerError, tc.Recorder.Code)
}

func TestWebhookOrderCreated_NumericIDsAccepted(t *testing.T) {
	// Webhook payloads carry ids as JSON numbers; they must not be
	// rejected as malformed.
	payload := map[string]any{
		"id":   5678901234,
		"name": "#1003",
		"line_items": []map[string]any{
			{"id": 1111111111111, "product_id": 22, "variant_id": 4444, "sku": "SKU-1", "quantity": 2},
		},
	}

	ingestor := new(MockOrderIngestor)
	ingestor.On("Ingest", mock.Anything, "shop.example.com", mock.MatchedBy(func(e fulfillment.OrderEvent) bool {
		return e.ID == "5678901234" && len(e.LineItems) == 1 && e.LineItems[0].VariantID == "4444"
	})).Return(&fulfillment.IngestResult{Processed: true, OwnedCount: 1}, nil)

	h := NewWebhookHandler(ingestor, cache.NewInMemoryIdempotencyStore(), "secret", time.Hour, zap.NewNop())
	tc := testutil.NewTestContextWithRequest(t, webhookRequest(t, "secret", "shop.example.com", "evt-5", payload))

	h.OrderCreated(tc.Context)

	assert.Equal(t, http.StatusOK, tc.Recorder.Code)
	var ack WebhookAck
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &ack))
	assert.Equal(t, "processed", ack.Status)
	ingestor.AssertExpectations(t)
}

func TestWebhookOrderCreated_MissingShopDomainRejected(t *testing.T) {
	ingestor := new(MockOrderIngestor)
	h := NewWebhookHandler(ingestor, cache.NewInMemoryIdempotencyStore(), "secret", time.Hour, zap.NewNop())

	tc := testutil.NewTestContextWithRequest(t, webhookRequest(t, "secret", "", "evt-4", orderPayload()))
	h.OrderCreated(tc.Context)

	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
}
