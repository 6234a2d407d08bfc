package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/application/fulfillment"
	"github.com/fulfillbridge/backend/internal/domain/shared"
)

// Webhook headers set by the platform on every delivery.
const (
	HeaderWebhookHMAC   = "X-Platform-Hmac-SHA256"
	HeaderWebhookShop   = "X-Platform-Shop-Domain"
	HeaderWebhookID     = "X-Platform-Webhook-ID"
	defaultWebhookDedup = 24 * time.Hour
)

// OrderIngestor processes verified order events.
type OrderIngestor interface {
	Ingest(ctx context.Context, merchant string, event fulfillment.OrderEvent) (*fulfillment.IngestResult, error)
}

// WebhookHandler receives order-creation webhooks from the platform. The
// endpoint is public; authenticity comes from the HMAC signature over the
// raw body. Any 2xx acknowledges the delivery, so skips and duplicates
// return 200 and only genuine processing faults return an error status,
// prompting the platform to redeliver.
type WebhookHandler struct {
	ingestion OrderIngestor
	dedup     shared.IdempotencyStore
	secret    string
	dedupTTL  time.Duration
	logger    *zap.Logger
}

func NewWebhookHandler(
	ingestion OrderIngestor,
	dedup shared.IdempotencyStore,
	secret string,
	dedupTTL time.Duration,
	logger *zap.Logger,
) *WebhookHandler {
	if dedupTTL <= 0 {
		dedupTTL = defaultWebhookDedup
	}
	return &WebhookHandler{
		ingestion: ingestion,
		dedup:     dedup,
		secret:    secret,
		dedupTTL:  dedupTTL,
		logger:    logger,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/orders/create", h.OrderCreated)
}

// WebhookAck is the acknowledgement body for a webhook delivery.
type WebhookAck struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// OrderCreated ingests an order-creation event.
func (h *WebhookHandler) OrderCreated(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, WebhookAck{Status: "rejected", Reason: "unreadable body"})
		return
	}

	if !h.verifySignature(body, c.GetHeader(HeaderWebhookHMAC)) {
		h.logger.Warn("webhook signature mismatch",
			zap.String("shop", c.GetHeader(HeaderWebhookShop)))
		c.JSON(http.StatusUnauthorized, WebhookAck{Status: "rejected", Reason: "invalid signature"})
		return
	}

	merchant := c.GetHeader(HeaderWebhookShop)
	if merchant == "" {
		c.JSON(http.StatusBadRequest, WebhookAck{Status: "rejected", Reason: "missing shop domain"})
		return
	}

	if eventID := c.GetHeader(HeaderWebhookID); eventID != "" {
		fresh, err := h.dedup.MarkProcessed(c.Request.Context(), eventID, h.dedupTTL)
		if err != nil {
			// Dedup store trouble is not a reason to drop the event; the
			// order upsert is idempotent anyway.
			h.logger.Warn("idempotency store unavailable", zap.Error(err))
		} else if !fresh {
			h.logger.Debug("duplicate webhook delivery",
				zap.String("event_id", eventID),
				zap.String("merchant", merchant))
			c.JSON(http.StatusOK, WebhookAck{Status: "duplicate"})
			return
		}
	}

	var event fulfillment.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, WebhookAck{Status: "rejected", Reason: "malformed payload"})
		return
	}

	result, err := h.ingestion.Ingest(c.Request.Context(), merchant, event)
	if err != nil {
		h.logger.Error("order ingestion failed",
			zap.String("merchant", merchant),
			zap.String("order_id", string(event.ID)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, WebhookAck{Status: "error"})
		return
	}

	if !result.Processed {
		c.JSON(http.StatusOK, WebhookAck{Status: "skipped", Reason: result.SkipReason})
		return
	}
	c.JSON(http.StatusOK, WebhookAck{Status: "processed"})
}

// verifySignature checks the HMAC-SHA256 of the raw body against the
// base64 digest the platform sends. An empty secret disables verification
// for local development.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.secret == "" {
		return true
	}
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
