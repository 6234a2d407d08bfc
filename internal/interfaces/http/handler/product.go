package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/fulfillbridge/backend/internal/application/catalog"
	"github.com/fulfillbridge/backend/internal/application/inventory"
	"github.com/fulfillbridge/backend/internal/domain/catalog"
)

// ProductHandler exposes product registration and inventory refresh.
type ProductHandler struct {
	BaseHandler
	registration *appcatalog.RegistrationService
	sync         *inventory.SyncService
	logger       *zap.Logger
}

func NewProductHandler(registration *appcatalog.RegistrationService, sync *inventory.SyncService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{registration: registration, sync: sync, logger: logger}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/products")
	{
		group.GET("", h.ListProducts)
		group.POST("/register", h.RegisterProducts)
		group.POST("/inventory/refresh", h.RefreshInventory)
	}
}

// RegisteredProductResponse is the wire form of a registration.
type RegisteredProductResponse struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	Title        string `json:"title"`
	SKU          string `json:"sku"`
}

// AvailableVariantResponse is a catalog variant not yet registered.
type AvailableVariantResponse struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	ProductTitle string `json:"product_title"`
	VariantTitle string `json:"variant_title"`
	SKU          string `json:"sku"`
}

// ProductListingResponse pairs registered and available variants.
type ProductListingResponse struct {
	Added     []RegisteredProductResponse `json:"added"`
	Available []AvailableVariantResponse  `json:"available"`
}

func toListingResponse(listing *appcatalog.ProductListing) ProductListingResponse {
	resp := ProductListingResponse{
		Added:     make([]RegisteredProductResponse, 0, len(listing.Added)),
		Available: make([]AvailableVariantResponse, 0, len(listing.Available)),
	}
	for _, p := range listing.Added {
		resp.Added = append(resp.Added, toRegisteredResponse(p))
	}
	for _, v := range listing.Available {
		resp.Available = append(resp.Available, AvailableVariantResponse{
			ProductID:    v.ProductID,
			VariantID:    v.VariantID,
			ProductTitle: v.ProductTitle,
			VariantTitle: v.VariantTitle,
			SKU:          v.SKU,
		})
	}
	return resp
}

func toRegisteredResponse(p catalog.RegisteredProduct) RegisteredProductResponse {
	return RegisteredProductResponse{
		ProductID: p.ProductID,
		VariantID: p.VariantID,
		Title:     p.Title,
		SKU:       p.SKU,
	}
}

// ListProducts returns the merchant's catalog split into registered and
// available variants.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	merchant, ok := getMerchant(c)
	if !ok {
		h.Unauthorized(c, "merchant not authenticated")
		return
	}

	listing, err := h.registration.ListProducts(c.Request.Context(), merchant)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponse(listing))
}

// RegisterProductsRequest is the registration payload.
type RegisterProductsRequest struct {
	Selections []SelectionRequest `json:"selections" binding:"required,min=1,dive"`
}

// SelectionRequest is one selected (product, variant) pair.
type SelectionRequest struct {
	ProductID    string `json:"product_id" binding:"required"`
	VariantID    string `json:"variant_id" binding:"required"`
	ProductTitle string `json:"product_title"`
	VariantTitle string `json:"variant_title"`
	SKU          string `json:"sku"`
}

// RegisterProducts registers the selected variants for remote fulfillment.
func (h *ProductHandler) RegisterProducts(c *gin.Context) {
	merchant, ok := getMerchant(c)
	if !ok {
		h.Unauthorized(c, "merchant not authenticated")
		return
	}

	var req RegisterProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid registration payload: "+err.Error())
		return
	}

	selections := make([]appcatalog.Selection, len(req.Selections))
	for i, sel := range req.Selections {
		selections[i] = appcatalog.Selection(sel)
	}

	products, err := h.registration.RegisterProducts(c.Request.Context(), merchant, selections)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]RegisteredProductResponse, len(products))
	for i, p := range products {
		resp[i] = toRegisteredResponse(p)
	}
	h.Created(c, resp)
}

// RefreshInventoryRequest identifies the variant to refresh.
type RefreshInventoryRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id" binding:"required"`
}

// RefreshInventoryResponse reports the quantity that was set.
type RefreshInventoryResponse struct {
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

// RefreshInventory recalculates one registered variant's stock level with
// the partner and writes it to the platform. Failures surface to the caller.
func (h *ProductHandler) RefreshInventory(c *gin.Context) {
	merchant, ok := getMerchant(c)
	if !ok {
		h.Unauthorized(c, "merchant not authenticated")
		return
	}

	var req RefreshInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid inventory refresh payload: "+err.Error())
		return
	}

	registration, err := h.registration.FindRegistration(c.Request.Context(), merchant, req.ProductID, req.VariantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	quantity, err := h.sync.UpdateVariantInventory(c.Request.Context(), merchant, registration.VariantID, registration.SKU)
	if err != nil {
		h.logger.Warn("inventory refresh failed",
			zap.String("merchant", merchant),
			zap.String("variant_id", registration.VariantID),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, RefreshInventoryResponse{
		VariantID: registration.VariantID,
		SKU:       registration.SKU,
		Quantity:  quantity,
	})
}
