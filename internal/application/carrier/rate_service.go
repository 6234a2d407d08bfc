package carrier

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateItem is one line of a rate request.
type RateItem struct {
	SKU      string
	Quantity int
}

// RateRequest is the platform's callback payload asking for shipping rates.
type RateRequest struct {
	Items []RateItem
}

// RateQuote is one shipping option offered back to the platform. Prices are
// in the currency's minor unit.
type RateQuote struct {
	ServiceName     string
	ServiceCode     string
	TotalPrice      decimal.Decimal
	Currency        string
	Description     string
	MinDeliveryDate time.Time
	MaxDeliveryDate time.Time
}

// RateService quotes shipping tiers for carrier-rate callbacks. Faster tiers
// unlock as the order grows: larger orders batch better, so expedited
// handling gets cheaper to offer.
type RateService struct {
	currency string
	logger   *zap.Logger
}

func NewRateService(currency string, logger *zap.Logger) *RateService {
	if currency == "" {
		currency = "USD"
	}
	return &RateService{currency: currency, logger: logger}
}

var (
	standardPrice = decimal.Zero
	moderatePrice = decimal.NewFromInt(500)
	fastPrice     = decimal.NewFromInt(1000)
)

// Quote returns the shipping options for a request. An empty request gets no
// quotes.
func (s *RateService) Quote(req RateRequest, now time.Time) []RateQuote {
	total := 0
	for _, item := range req.Items {
		total += item.Quantity
	}
	if total < 1 {
		return nil
	}

	quotes := []RateQuote{{
		ServiceName:     "Standard Shipping",
		ServiceCode:     "STANDARD",
		TotalPrice:      standardPrice,
		Currency:        s.currency,
		Description:     "Free standard delivery",
		MinDeliveryDate: now.AddDate(0, 0, 4),
		MaxDeliveryDate: now.AddDate(0, 0, 4),
	}}

	if total >= 2 {
		quotes = append(quotes, RateQuote{
			ServiceName:     "Moderate Shipping",
			ServiceCode:     "MODERATE",
			TotalPrice:      moderatePrice,
			Currency:        s.currency,
			Description:     "Faster delivery for multi-item orders",
			MinDeliveryDate: now.AddDate(0, 0, 2),
			MaxDeliveryDate: now.AddDate(0, 0, 3),
		})
	}

	if total >= 3 {
		quotes = append(quotes, RateQuote{
			ServiceName:     "Fast Shipping",
			ServiceCode:     "FAST",
			TotalPrice:      fastPrice,
			Currency:        s.currency,
			Description:     "Next-day delivery",
			MinDeliveryDate: now.AddDate(0, 0, 1),
			MaxDeliveryDate: now.AddDate(0, 0, 1),
		})
	}

	s.logger.Debug("rates quoted",
		zap.Int("total_items", total),
		zap.Int("quotes", len(quotes)))
	return quotes
}
