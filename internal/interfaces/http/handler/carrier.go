package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/application/carrier"
)

const deliveryDateLayout = "2006-01-02 15:04:05 -0700"

// CarrierHandler answers the platform's carrier-service rate callbacks.
// The endpoint is public: the platform calls it directly, without a
// merchant session.
type CarrierHandler struct {
	service *carrier.RateService
	logger  *zap.Logger
}

func NewCarrierHandler(service *carrier.RateService, logger *zap.Logger) *CarrierHandler {
	return &CarrierHandler{service: service, logger: logger}
}

// RegisterRoutes registers the rate callback
func (h *CarrierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/carrier-service", h.Rates)
}

type rateCallbackRequest struct {
	Rate struct {
		Origin      map[string]any     `json:"origin"`
		Destination map[string]any     `json:"destination"`
		Items       []rateCallbackItem `json:"items"`
		Currency    string             `json:"currency"`
	} `json:"rate"`
}

type rateCallbackItem struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type rateResponse struct {
	Rates []rateEntry `json:"rates"`
}

// rateEntry follows the platform's carrier-service wire format: prices are
// minor-unit strings, dates are formatted timestamps.
type rateEntry struct {
	ServiceName     string `json:"service_name"`
	ServiceCode     string `json:"service_code"`
	TotalPrice      string `json:"total_price"`
	Currency        string `json:"currency"`
	Description     string `json:"description"`
	MinDeliveryDate string `json:"min_delivery_date"`
	MaxDeliveryDate string `json:"max_delivery_date"`
}

// Rates quotes shipping options for a checkout. Responses always use the
// platform's bare rate schema, not the API envelope.
func (h *CarrierHandler) Rates(c *gin.Context) {
	var req rateCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed rate callback", zap.Error(err))
		c.JSON(http.StatusBadRequest, rateResponse{Rates: []rateEntry{}})
		return
	}

	items := make([]carrier.RateItem, 0, len(req.Rate.Items))
	for _, item := range req.Rate.Items {
		items = append(items, carrier.RateItem{SKU: item.SKU, Quantity: item.Quantity})
	}

	quotes := h.service.Quote(carrier.RateRequest{Items: items}, time.Now())

	entries := make([]rateEntry, 0, len(quotes))
	for _, q := range quotes {
		entries = append(entries, rateEntry{
			ServiceName:     q.ServiceName,
			ServiceCode:     q.ServiceCode,
			TotalPrice:      q.TotalPrice.String(),
			Currency:        q.Currency,
			Description:     q.Description,
			MinDeliveryDate: q.MinDeliveryDate.Format(deliveryDateLayout),
			MaxDeliveryDate: q.MaxDeliveryDate.Format(deliveryDateLayout),
		})
	}

	c.JSON(http.StatusOK, rateResponse{Rates: entries})
}
