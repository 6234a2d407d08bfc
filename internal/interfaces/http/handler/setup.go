package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsetup "github.com/fulfillbridge/backend/internal/application/setup"
	"github.com/fulfillbridge/backend/internal/domain/setup"
)

// SetupHandler exposes merchant provisioning.
type SetupHandler struct {
	BaseHandler
	service *appsetup.Service
	logger  *zap.Logger
}

func NewSetupHandler(service *appsetup.Service, logger *zap.Logger) *SetupHandler {
	return &SetupHandler{service: service, logger: logger}
}

// RegisterRoutes registers setup routes
func (h *SetupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/setup")
	{
		group.GET("", h.GetSetup)
		group.POST("/provision", h.Provision)
	}
}

// SetupResponse is the wire form of a merchant's setup state.
type SetupResponse struct {
	Merchant             string  `json:"merchant"`
	CarrierServiceID     *string `json:"carrier_service_id"`
	FulfillmentServiceID *string `json:"fulfillment_service_id"`
	OrderWebhookID       *string `json:"order_webhook_id"`
	Step1Completed       bool    `json:"step1_completed"`
	Step2Completed       bool    `json:"step2_completed"`
}

func toSetupResponse(s *setup.ShopSetup) SetupResponse {
	return SetupResponse{
		Merchant:             s.Merchant,
		CarrierServiceID:     s.CarrierServiceID,
		FulfillmentServiceID: s.FulfillmentServiceID,
		OrderWebhookID:       s.OrderWebhookID,
		Step1Completed:       s.Step1Completed,
		Step2Completed:       s.Step2Completed,
	}
}

// GetSetup returns the merchant's current setup state. A merchant that has
// never provisioned gets an empty record rather than a 404, so the
// dashboard can always render the checklist.
func (h *SetupHandler) GetSetup(c *gin.Context) {
	merchant, ok := getMerchant(c)
	if !ok {
		h.Unauthorized(c, "merchant not authenticated")
		return
	}

	record, err := h.service.GetSetup(c.Request.Context(), merchant)
	if errors.Is(err, setup.ErrSetupNotFound) {
		h.Success(c, SetupResponse{Merchant: merchant})
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSetupResponse(record))
}

// Provision ensures the merchant's remote resources exist. Safe to call
// repeatedly.
func (h *SetupHandler) Provision(c *gin.Context) {
	merchant, ok := getMerchant(c)
	if !ok {
		h.Unauthorized(c, "merchant not authenticated")
		return
	}

	record, err := h.service.EnsureProvisioned(c.Request.Context(), merchant)
	if err != nil {
		h.logger.Error("provisioning failed",
			zap.String("merchant", merchant),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSetupResponse(record))
}
