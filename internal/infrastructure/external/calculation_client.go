package external

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// CalculationClient queries the partner calculation service for the stock
// level of a single SKU.
type CalculationClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewCalculationClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CalculationClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CalculationClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type inventoryRequest struct {
	SKU string `json:"sku"`
}

type inventoryResponse struct {
	Inventory int `json:"inventory"`
}

// InventoryLevel returns the sellable quantity the partner reports for sku.
func (c *CalculationClient) InventoryLevel(ctx context.Context, sku string) (int, error) {
	var resp inventoryResponse
	if err := postJSON(ctx, c.client, c.baseURL+"/inventory", inventoryRequest{SKU: sku}, &resp); err != nil {
		return 0, err
	}
	c.logger.Debug("inventory level received",
		zap.String("sku", sku),
		zap.Int("inventory", resp.Inventory))
	return resp.Inventory, nil
}
