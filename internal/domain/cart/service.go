package cart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
)

// Cart errors
var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductInactive = errors.New("product not found or inactive")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddRequest represents an add-to-cart request
type AddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateRequest represents a set-quantity request. Quantities below 1 are
// clamped to 1 rather than rejected.
type UpdateRequest struct {
	Quantity int `json:"quantity"`
}

// Response represents a shopping cart with items and totals
type Response struct {
	Items  []CartItem `json:"items"`
	Totals Totals     `json:"totals"`
}

// GetCart retrieves the user's cart with product details
func (s *Service) GetCart(userID uint) (*Response, error) {
	items, err := s.loadItems(userID)
	if err != nil {
		return nil, err
	}
	return &Response{Items: items, Totals: s.calculateTotals(items)}, nil
}

// AddItem adds a product to the cart. Adding a product already in the cart
// accumulates its quantity with a single SQL increment so concurrent adds
// are not lost.
func (s *Service) AddItem(userID uint, req *AddRequest) (*Response, error) {
	var prod product.Product
	if result := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod); result.Error != nil {
		return nil, ErrProductInactive
	}
	if !prod.IsInStock() {
		return nil, ErrOutOfStock
	}

	var existing CartItem
	result := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing)
	switch {
	case result.Error == nil:
		err := s.db.Model(&CartItem{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", req.Quantity),
				"price":    prod.Price,
			}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		item := CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     prod.Price,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to check cart: %w", result.Error)
	}

	return s.GetCart(userID)
}

// UpdateItem sets the quantity of a cart line, clamping to at least 1
func (s *Service) UpdateItem(userID, productID uint, req *UpdateRequest) (*Response, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	result := s.db.Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", req.Quantity)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return s.GetCart(userID)
}

// RemoveItem removes a product from the cart. Removing an absent product is
// not an error.
func (s *Service) RemoveItem(userID, productID uint) (*Response, error) {
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItem{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.GetCart(userID)
}

// ClearCart removes every item from the user's cart
func (s *Service) ClearCart(userID uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Service) loadItems(userID uint) ([]CartItem, error) {
	var items []CartItem
	err := s.db.Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return items, nil
}

func (s *Service) calculateTotals(items []CartItem) Totals {
	totals := Totals{ItemCount: len(items)}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Price * int64(item.Quantity)
	}
	return totals
}
