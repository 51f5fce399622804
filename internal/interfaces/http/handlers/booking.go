package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/booking"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// BookingHandler handles farm-visit booking endpoints
type BookingHandler struct {
	bookings *booking.Service
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create handles POST /bookings. Works for guests; a logged-in user gets the
// booking attached to their account.
func (h *BookingHandler) Create(c *gin.Context) {
	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.bookings.Create(middleware.GetOptionalUserID(c), &req)
	if err != nil {
		if errors.Is(err, booking.ErrPastDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking request received",
		"data":    created,
	})
}

// ListMine handles GET /bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req booking.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.bookings.GetUserBookings(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// Admin endpoints

// ListBookings handles GET /admin/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var req booking.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.bookings.ListBookings(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// Approve handles PUT /admin/bookings/:id/approve
func (h *BookingHandler) Approve(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	approved, err := h.bookings.Approve(bookingID, adminID)
	if err != nil {
		h.reviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking approved",
		"data":    approved,
	})
}

// Reject handles PUT /admin/bookings/:id/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req booking.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A rejection reason is required",
		})
		return
	}

	rejected, err := h.bookings.Reject(bookingID, adminID, &req)
	if err != nil {
		h.reviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking rejected",
		"data":    rejected,
	})
}

func (h *BookingHandler) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking has already been reviewed"})
	case errors.Is(err, booking.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to review booking"})
	}
}
