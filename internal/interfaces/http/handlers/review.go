package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	reviews *product.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *product.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// GetProductReviews handles GET /products/:id/reviews
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req product.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.reviews.GetProductReviews(productID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// CreateReview handles POST /products/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req product.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	req.ProductID = productID

	review, err := h.reviews.CreateReview(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, product.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted",
		"data":    review,
	})
}

// GetMyReviews handles GET /reviews
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req product.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.reviews.GetUserReviews(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// UpdateReview handles PUT /reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req product.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	review, err := h.reviews.UpdateReview(userID, reviewID, &req)
	if err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated",
		"data":    review,
	})
}

// DeleteReview handles DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.reviews.DeleteReview(userID, reviewID); err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted",
	})
}

// Admin moderation endpoints

// ListReviews handles GET /admin/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var req product.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.reviews.GetReviewsAdmin(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// ApproveReview handles PUT /admin/reviews/:id/approve
func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.reviews.ApproveReview(reviewID); err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review approved",
	})
}

// RejectReview handles DELETE /admin/reviews/:id
func (h *ReviewHandler) RejectReview(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.reviews.RejectReview(reviewID); err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review rejected and removed",
	})
}
