package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/wishlist"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlists *wishlist.Service
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlists *wishlist.Service) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	response, err := h.wishlists.GetWishlist(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// Toggle handles POST /wishlist/toggle
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req wishlist.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.wishlists.Toggle(userID, &req)
	if err != nil {
		if errors.Is(err, wishlist.ErrProductInactive) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist updated",
		"data":    response,
	})
}

// Remove handles DELETE /wishlist/:productId
func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return
	}

	response, err := h.wishlists.Remove(userID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from wishlist",
		"data":    response,
	})
}
