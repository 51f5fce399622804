package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/user"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// AddressHandler handles address book endpoints
type AddressHandler struct {
	addresses *user.AddressService
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addresses *user.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// ListAddresses handles GET /addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	addresses, err := h.addresses.ListAddresses(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve addresses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": addresses,
	})
}

// CreateAddress handles POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req user.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	address, err := h.addresses.CreateAddress(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create address",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"data":    address,
	})
}

// UpdateAddress handles PUT /addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	addressID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req user.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	address, err := h.addresses.UpdateAddress(userID, addressID, &req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Address not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"data":    address,
	})
}

// DeleteAddress handles DELETE /addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	addressID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.addresses.DeleteAddress(userID, addressID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Address not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}
