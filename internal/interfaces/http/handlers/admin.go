package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/analytics"
	"github.com/haritfarms/storefront-backend/internal/domain/order"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// AdminHandler handles the admin dashboard and user management endpoints
type AdminHandler struct {
	stats  *analytics.Service
	users  *user.AdminService
	orders *order.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(stats *analytics.Service, users *user.AdminService, orders *order.Service) *AdminHandler {
	return &AdminHandler{stats: stats, users: users, orders: orders}
}

// GetDashboard handles GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.stats.GetDashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
	})
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req user.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.users.ListUsers(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// BlockUser handles PUT /admin/users/:id/block
func (h *AdminHandler) BlockUser(c *gin.Context) {
	h.setUserActive(c, false, "User blocked")
}

// UnblockUser handles PUT /admin/users/:id/unblock
func (h *AdminHandler) UnblockUser(c *gin.Context) {
	h.setUserActive(c, true, "User unblocked")
}

func (h *AdminHandler) setUserActive(c *gin.Context, active bool, message string) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	updated, err := h.users.SetActive(userID, active)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    updated,
	})
}

// Order management

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.orders.ListOrders(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	found, err := h.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": found,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req order.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orders.UpdateStatus(orderID, &req, adminID)
	if err != nil {
		h.orderStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"data":    updated,
	})
}

type forceStatusRequest struct {
	Status  order.Status `json:"status" binding:"required"`
	Comment string       `json:"comment"`
}

// ForceOrderStatus handles PUT /admin/orders/:id/force-status. The order is
// walked through every intermediate status so history and notifications stay
// consistent.
func (h *AdminHandler) ForceOrderStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req forceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orders.ForceStatus(orderID, req.Status, req.Comment, adminID)
	if err != nil {
		h.orderStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"data":    updated,
	})
}

func (h *AdminHandler) orderStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrStatusChanged):
		c.JSON(http.StatusConflict, gin.H{"error": "Order was modified concurrently, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
	}
}
