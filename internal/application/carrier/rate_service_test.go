package carrier

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func quoteCodes(quotes []RateQuote) []string {
	codes := make([]string, len(quotes))
	for i, q := range quotes {
		codes[i] = q.ServiceCode
	}
	return codes
}

func TestQuote_Tiers(t *testing.T) {
	svc := NewRateService("USD", zap.NewNop())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		items     []RateItem
		wantCodes []string
	}{
		{
			name:      "no items",
			items:     nil,
			wantCodes: []string{},
		},
		{
			name:      "single item gets standard only",
			items:     []RateItem{{SKU: "A", Quantity: 1}},
			wantCodes: []string{"STANDARD"},
		},
		{
			name:      "two items unlock moderate",
			items:     []RateItem{{SKU: "A", Quantity: 1}, {SKU: "B", Quantity: 1}},
			wantCodes: []string{"STANDARD", "MODERATE"},
		},
		{
			name:      "quantity counts, not lines",
			items:     []RateItem{{SKU: "A", Quantity: 3}},
			wantCodes: []string{"STANDARD", "MODERATE", "FAST"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes := svc.Quote(RateRequest{Items: tt.items}, now)
			assert.ElementsMatch(t, tt.wantCodes, quoteCodes(quotes))
		})
	}
}

func TestQuote_PricesAndDeliveryWindows(t *testing.T) {
	svc := NewRateService("USD", zap.NewNop())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	quotes := svc.Quote(RateRequest{Items: []RateItem{{SKU: "A", Quantity: 3}}}, now)
	require.Len(t, quotes, 3)

	standard, moderate, fast := quotes[0], quotes[1], quotes[2]

	assert.True(t, standard.TotalPrice.Equal(decimal.Zero))
	assert.Equal(t, now.AddDate(0, 0, 4), standard.MinDeliveryDate)

	assert.True(t, moderate.TotalPrice.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, now.AddDate(0, 0, 2), moderate.MinDeliveryDate)
	assert.Equal(t, now.AddDate(0, 0, 3), moderate.MaxDeliveryDate)

	assert.True(t, fast.TotalPrice.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, now.AddDate(0, 0, 1), fast.MinDeliveryDate)
	assert.Equal(t, now.AddDate(0, 0, 1), fast.MaxDeliveryDate)

	for _, q := range quotes {
		assert.Equal(t, "USD", q.Currency)
	}
}
