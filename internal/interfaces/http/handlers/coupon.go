package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/cart"
	"github.com/haritfarms/storefront-backend/internal/domain/coupon"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	coupons *coupon.Service
	carts   *cart.Service
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *coupon.Service, carts *cart.Service) *CouponHandler {
	return &CouponHandler{coupons: coupons, carts: carts}
}

// Apply handles POST /coupons/apply
func (h *CouponHandler) Apply(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req coupon.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResp, err := h.carts.GetCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	response, err := h.coupons.Apply(c.Request.Context(), userID, req.Code, cartResp.Totals.SubTotal)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, coupon.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon applied",
		"data":    response,
	})
}

// Remove handles DELETE /coupons/applied
func (h *CouponHandler) Remove(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.coupons.Remove(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon removed",
	})
}

// ListCoupons handles GET /admin/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.coupons.ListCoupons()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve coupons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": coupons,
	})
}

// CreateCoupon handles POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req coupon.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.coupons.CreateCoupon(&req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    created,
	})
}

// UpdateCoupon handles PUT /admin/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req coupon.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.coupons.UpdateCoupon(id, &req)
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"data":    updated,
	})
}

// DeleteCoupon handles DELETE /admin/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.coupons.DeleteCoupon(id); err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deleted successfully",
	})
}
