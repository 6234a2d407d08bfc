package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
)

const maxResponseSize = 1 * 1024 * 1024 // 1MB

// DecisionClient asks the partner decision service whether it will take on
// an incoming fulfillment request.
type DecisionClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewDecisionClient(baseURL string, timeout time.Duration, logger *zap.Logger) *DecisionClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DecisionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type decisionLineItem struct {
	ID       string `json:"id"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// The decision service reads camelCase keys from the request body.
type decisionRequest struct {
	OrderID   string             `json:"orderId"`
	OrderName string             `json:"orderName"`
	LineItems []decisionLineItem `json:"lineItems"`
}

type decisionResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

// RequestFulfillment forwards the order to the decision service and reports
// whether it was accepted.
func (c *DecisionClient) RequestFulfillment(ctx context.Context, orderID, orderName string, items []fulfillment.OrderLineItem) (bool, string, error) {
	req := decisionRequest{OrderID: orderID, OrderName: orderName}
	for _, item := range items {
		req.LineItems = append(req.LineItems, decisionLineItem{
			ID:       item.ID,
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}

	var resp decisionResponse
	if err := postJSON(ctx, c.client, c.baseURL+"/request-fulfillment", req, &resp); err != nil {
		return false, "", err
	}

	c.logger.Debug("fulfillment decision received",
		zap.String("order_id", orderID),
		zap.Bool("accepted", resp.Accepted),
		zap.String("reason", resp.Reason))
	return resp.Accepted, resp.Reason, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: status %d", url, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
