package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/order"
	"github.com/haritfarms/storefront-backend/internal/domain/payment"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment gateway endpoints
type PaymentHandler struct {
	payments *payment.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Initiate handles POST /payments/orders/:id/initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	response, err := h.payments.Initiate(userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, payment.ErrNotOnlineOrder), errors.Is(err, payment.ErrAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to initiate payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment initiated",
		"data":    response,
	})
}

// Verify handles POST /payments/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req payment.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.payments.Verify(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, payment.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payment verification failed",
				"retry": true,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment verified",
		"data":    o,
	})
}

// Webhook handles POST /payments/webhook. The gateway authenticates with a
// body signature header, not a user token.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.payments.HandleWebhook(body, signature); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
