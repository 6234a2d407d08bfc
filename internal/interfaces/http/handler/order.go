package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appfulfillment "github.com/fulfillbridge/backend/internal/application/fulfillment"
	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
)

// OrderHandler exposes the merchant's order list and manual fulfillment.
type OrderHandler struct {
	BaseHandler
	service *appfulfillment.Service
	logger  *zap.Logger
}

func NewOrderHandler(service *appfulfillment.Service, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logger}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/orders")
	{
		group.GET("", h.ListOrders)
		group.POST("/:id/fulfill", h.FulfillOrder)
	}
}

// OrderResponse is the wire form of a tracked order.
type OrderResponse struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	LineItemCount int       `json:"line_item_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toOrderResponse(o fulfillment.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		LineItemCount: o.LineItemCount,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// FulfillOrderResponse reports the tracking assigned to a shipped order.
type FulfillOrderResponse struct {
	OrderID         string `json:"order_id"`
	Status          string `json:"status"`
	TrackingCompany string `json:"tracking_company"`
	TrackingNumber  string `json:"tracking_number"`
	TrackingURL     string `json:"tracking_url"`
}

// ListOrders returns the merchant's orders, newest first.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	merchant, ok := getMerchant(c)
	if !ok {
		h.Unauthorized(c, "merchant not authenticated")
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), merchant)
	if err != nil {
		h.logger.Error("list orders failed",
			zap.String("merchant", merchant),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	h.Success(c, out)
}

// FulfillOrder ships an accepted order and returns its tracking info.
func (h *OrderHandler) FulfillOrder(c *gin.Context) {
	merchant, ok := getMerchant(c)
	if !ok {
		h.Unauthorized(c, "merchant not authenticated")
		return
	}
	orderID := c.Param("id")
	if orderID == "" {
		h.BadRequest(c, "order id is required")
		return
	}

	tracking, err := h.service.FulfillOrder(c.Request.Context(), merchant, orderID)
	if err != nil {
		h.logger.Warn("fulfill order failed",
			zap.String("merchant", merchant),
			zap.String("order_id", orderID),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, FulfillOrderResponse{
		OrderID:         orderID,
		Status:          string(fulfillment.OrderStatusFulfilled),
		TrackingCompany: tracking.Company,
		TrackingNumber:  tracking.Number,
		TrackingURL:     tracking.URL,
	})
}
