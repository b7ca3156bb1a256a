package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/middleware"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/internal/services"
)

// PaymentHandler handles gateway order creation and verification
type PaymentHandler struct {
	payments *services.PaymentService
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// CreateOrder handles POST /api/v1/payments/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCtx, _ := middleware.GetUserContext(c)

	resp, err := h.payments.CreateOrder(userCtx.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Verify handles POST /api/v1/payments/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verified, err := h.payments.Verify(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !verified {
		c.JSON(http.StatusBadRequest, gin.H{
			"verified": false,
			"error":    "payment signature verification failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// List handles GET /api/v1/admin/payments
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.payments.List()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}
