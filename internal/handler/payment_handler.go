package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/application"
	"github.com/swiftbus/service-ticketing/internal/middleware"
	"github.com/swiftbus/service-ticketing/internal/response"
)

// PaymentHandler exposes the payment endpoints for authenticated users.
type PaymentHandler struct {
	payments *application.PaymentService
	logger   *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments *application.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// RegisterRoutes wires the payment endpoints onto the API group.
func (h *PaymentHandler) RegisterRoutes(api *gin.RouterGroup) {
	authed := api.Group("/payment", middleware.RequireSession())
	authed.POST("/initiate", h.InitiatePayment)
	authed.POST("/confirm", h.ConfirmPayment)
	authed.GET("/:booking_id", h.GetPayment)
}

// InitiatePayment handles POST /api/payment/initiate.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	var req application.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "booking_id and method are required")
		return
	}

	p, err := h.payments.InitiatePayment(c.Request.Context(), sess.AccountID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "payment initiated", p)
}

// ConfirmPayment handles POST /api/payment/confirm.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	var req application.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "booking_id is required")
		return
	}

	p, err := h.payments.ConfirmPayment(c.Request.Context(), sess.AccountID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "payment confirmed", p)
}

// GetPayment handles GET /api/payment/:booking_id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	p, err := h.payments.GetPayment(c.Request.Context(), sess.AccountID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "payment retrieved", p)
}
