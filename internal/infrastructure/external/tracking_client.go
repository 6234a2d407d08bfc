package external

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/platform"
)

// TrackingClient asks the partner tracking service to ship an order and
// returns the tracking details it assigns.
type TrackingClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewTrackingClient(baseURL string, timeout time.Duration, logger *zap.Logger) *TrackingClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TrackingClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Request keys are camelCase; the tracking service responds in snake_case.
type fulfillOrderRequest struct {
	OrderID string `json:"orderId"`
}

type fulfillOrderResponse struct {
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
	Carrier        string `json:"carrier"`
	Service        string `json:"service"`
}

// FulfillOrder requests shipment of orderID and returns the tracking info.
func (c *TrackingClient) FulfillOrder(ctx context.Context, orderID string) (platform.TrackingInfo, error) {
	var resp fulfillOrderResponse
	if err := postJSON(ctx, c.client, c.baseURL+"/fulfill-order", fulfillOrderRequest{OrderID: orderID}, &resp); err != nil {
		return platform.TrackingInfo{}, err
	}
	c.logger.Info("tracking assigned",
		zap.String("order_id", orderID),
		zap.String("tracking_number", resp.TrackingNumber),
		zap.String("carrier", resp.Carrier))
	return platform.TrackingInfo{
		Company: resp.Carrier,
		Number:  resp.TrackingNumber,
		URL:     resp.TrackingURL,
	}, nil
}
