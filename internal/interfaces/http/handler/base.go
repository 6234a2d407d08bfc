package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appfulfillment "github.com/fulfillbridge/backend/internal/application/fulfillment"
	"github.com/fulfillbridge/backend/internal/application/inventory"
	"github.com/fulfillbridge/backend/internal/domain/catalog"
	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
	"github.com/fulfillbridge/backend/internal/domain/platform"
	"github.com/fulfillbridge/backend/internal/domain/setup"
	"github.com/fulfillbridge/backend/internal/interfaces/http/dto"
	"github.com/fulfillbridge/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common response helpers
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getMerchant extracts the authenticated merchant from the context
func getMerchant(c *gin.Context) (string, bool) {
	merchant := middleware.GetMerchant(c)
	return merchant, merchant != ""
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps domain and application errors to HTTP responses.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var dup *catalog.DuplicateRegistrationError
	var transition *fulfillment.InvalidTransitionError
	var userErrs *platform.UserErrors

	switch {
	case errors.Is(err, setup.ErrSetupNotFound),
		errors.Is(err, fulfillment.ErrOrderNotFound),
		errors.Is(err, catalog.ErrRegistrationNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, err.Error())

	case errors.Is(err, setup.ErrSetupIncomplete):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeSetupRequired,
			"merchant setup is not complete")

	case errors.Is(err, setup.ErrInvalidMerchant),
		errors.Is(err, catalog.ErrNoSelection),
		errors.Is(err, catalog.ErrInvalidRegistration),
		errors.Is(err, fulfillment.ErrInvalidOrder):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())

	case errors.As(err, &dup):
		h.Error(c, http.StatusConflict, dto.ErrCodeAlreadyExists, dup.Error())

	case errors.As(err, &transition),
		errors.Is(err, appfulfillment.ErrOrderNotRequested),
		errors.Is(err, appfulfillment.ErrNoFulfillmentOrder),
		errors.Is(err, inventory.ErrNoFulfillingLocation),
		errors.Is(err, inventory.ErrInventoryItemNotFound):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, err.Error())

	case errors.As(err, &userErrs),
		errors.Is(err, platform.ErrResolutionInconsistency),
		errors.Is(err, platform.ErrPlatformRequestFailed),
		errors.Is(err, platform.ErrPlatformInvalidResponse),
		errors.Is(err, platform.ErrPlatformNotConfigured):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, err.Error())

	default:
		h.InternalError(c, "an unexpected error occurred")
	}
}
