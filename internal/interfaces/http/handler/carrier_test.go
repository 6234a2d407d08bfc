package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/application/carrier"
	"github.com/fulfillbridge/backend/tests/testutil"
)

func ratesRequest(t *testing.T, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/carrier-service", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCarrierRates_TiersGrowWithQuantity(t *testing.T) {
	h := NewCarrierHandler(carrier.NewRateService("USD", zap.NewNop()), zap.NewNop())

	payload := map[string]any{
		"rate": map[string]any{
			"currency": "USD",
			"items": []map[string]any{
				{"sku": "SKU-1", "quantity": 2},
				{"sku": "SKU-2", "quantity": 1},
			},
		},
	}
	tc := testutil.NewTestContextWithRequest(t, ratesRequest(t, payload))

	h.Rates(tc.Context)

	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	var resp rateResponse
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Rates, 3)
	assert.Equal(t, "STANDARD", resp.Rates[0].ServiceCode)
	assert.Equal(t, "0", resp.Rates[0].TotalPrice)
	assert.Equal(t, "MODERATE", resp.Rates[1].ServiceCode)
	assert.Equal(t, "500", resp.Rates[1].TotalPrice)
	assert.Equal(t, "FAST", resp.Rates[2].ServiceCode)
	assert.Equal(t, "1000", resp.Rates[2].TotalPrice)
	for _, r := range resp.Rates {
		assert.Equal(t, "USD", r.Currency)
		assert.NotEmpty(t, r.MinDeliveryDate)
		assert.NotEmpty(t, r.MaxDeliveryDate)
	}
}

func TestCarrierRates_SingleItemGetsStandardOnly(t *testing.T) {
	h := NewCarrierHandler(carrier.NewRateService("USD", zap.NewNop()), zap.NewNop())

	payload := map[string]any{
		"rate": map[string]any{
			"items": []map[string]any{{"sku": "SKU-1", "quantity": 1}},
		},
	}
	tc := testutil.NewTestContextWithRequest(t, ratesRequest(t, payload))

	h.Rates(tc.Context)

	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	var resp rateResponse
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Rates, 1)
	assert.Equal(t, "Standard Shipping", resp.Rates[0].ServiceName)
}

func TestCarrierRates_EmptyCartGetsNoRates(t *testing.T) {
	h := NewCarrierHandler(carrier.NewRateService("USD", zap.NewNop()), zap.NewNop())

	payload := map[string]any{"rate": map[string]any{"items": []map[string]any{}}}
	tc := testutil.NewTestContextWithRequest(t, ratesRequest(t, payload))

	h.Rates(tc.Context)

	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	var resp rateResponse
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rates)
}

func TestCarrierRates_MalformedBodyRejected(t *testing.T) {
	h := NewCarrierHandler(carrier.NewRateService("USD", zap.NewNop()), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/carrier-service", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	tc := testutil.NewTestContextWithRequest(t, req)

	h.Rates(tc.Context)

	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
}
