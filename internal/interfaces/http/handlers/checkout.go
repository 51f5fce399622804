package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/checkout"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutSvc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutSvc}
}

// GetSummary handles GET /checkout/summary. Returns the cart lines, saved addresses
// and the priced quote.
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	summary, err := h.checkout.GetSummary(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build checkout summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summary,
	})
}
