package wishlist

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/domain/product"
)

// ErrProductInactive is returned when toggling a missing or disabled product
var ErrProductInactive = errors.New("product not found or inactive")

// Service handles wishlist business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ToggleRequest represents a wishlist toggle request
type ToggleRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// Response represents the user's wishlist
type Response struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
}

// GetWishlist retrieves the user's wishlist with product details
func (s *Service) GetWishlist(userID uint) (*Response, error) {
	var items []Item
	err := s.db.Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}
	return &Response{Items: items, Count: len(items)}, nil
}

// Toggle adds the product to the wishlist if absent, removes it if present,
// and returns the resulting list.
func (s *Service) Toggle(userID uint, req *ToggleRequest) (*Response, error) {
	var existing Item
	result := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing)
	switch {
	case result.Error == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to remove wishlist item: %w", err)
		}
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		var prod product.Product
		if r := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod); r.Error != nil {
			return nil, ErrProductInactive
		}
		item := Item{UserID: userID, ProductID: req.ProductID}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add wishlist item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to check wishlist: %w", result.Error)
	}

	return s.GetWishlist(userID)
}

// Remove deletes a product from the wishlist. Removing an absent product is
// not an error.
func (s *Service) Remove(userID, productID uint) (*Response, error) {
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&Item{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return s.GetWishlist(userID)
}
