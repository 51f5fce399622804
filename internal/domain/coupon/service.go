package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
)

// Coupon errors
var (
	ErrNotFound      = errors.New("coupon not found")
	ErrInactive      = errors.New("coupon is not active")
	ErrExpired       = errors.New("coupon has expired")
	ErrExhausted     = errors.New("coupon usage limit reached")
	ErrMinNotReached = errors.New("cart total below coupon minimum")
	ErrNoneApplied   = errors.New("no coupon applied")
)

// appliedTTL bounds how long an applied coupon is held before checkout
const appliedTTL = 24 * time.Hour

// Service handles coupon business logic. The coupon a user has applied to
// their cart is held in Redis until checkout consumes it.
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
	}
}

// ApplyRequest represents a coupon apply request
type ApplyRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyResponse represents the applied coupon and its computed discount
type ApplyResponse struct {
	Coupon   *Coupon `json:"coupon"`
	Discount int64   `json:"discount"`
}

// CreateRequest represents coupon creation data
type CreateRequest struct {
	Code          string     `json:"code" binding:"required"`
	Description   string     `json:"description"`
	Type          string     `json:"type" binding:"required,oneof=percentage fixed"`
	Value         int64      `json:"value" binding:"required,gt=0"`
	MinOrderValue int64      `json:"min_order_value"`
	MaxDiscount   int64      `json:"max_discount"`
	ExpiresAt     *time.Time `json:"expires_at"`
	UsageLimit    int        `json:"usage_limit"`
	IsActive      bool       `json:"is_active"`
}

// UpdateRequest represents coupon update data
type UpdateRequest struct {
	Description   *string    `json:"description"`
	Value         *int64     `json:"value"`
	MinOrderValue *int64     `json:"min_order_value"`
	MaxDiscount   *int64     `json:"max_discount"`
	ExpiresAt     *time.Time `json:"expires_at"`
	UsageLimit    *int       `json:"usage_limit"`
	IsActive      *bool      `json:"is_active"`
}

func appliedKey(userID uint) string {
	return fmt.Sprintf("coupon:applied:%d", userID)
}

// Validate looks up a coupon code and checks it against a cart subtotal
func (s *Service) Validate(code string, subtotal int64) (*Coupon, error) {
	var c Coupon
	result := s.db.Where("code = ?", normalizeCode(code)).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", result.Error)
	}

	switch {
	case !c.IsActive:
		return nil, ErrInactive
	case c.IsExpired():
		return nil, ErrExpired
	case c.IsExhausted():
		return nil, ErrExhausted
	case subtotal < c.MinOrderValue:
		return nil, ErrMinNotReached
	}
	return &c, nil
}

// Apply validates the code against the subtotal and records it as the user's
// applied coupon. Applying a second code replaces the first.
func (s *Service) Apply(ctx context.Context, userID uint, code string, subtotal int64) (*ApplyResponse, error) {
	c, err := s.Validate(code, subtotal)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, appliedKey(userID), c.Code, appliedTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store applied coupon: %w", err)
	}

	return &ApplyResponse{Coupon: c, Discount: c.DiscountFor(subtotal)}, nil
}

// Remove clears the user's applied coupon. Clearing when none is applied is
// not an error.
func (s *Service) Remove(ctx context.Context, userID uint) error {
	if err := s.redis.Del(ctx, appliedKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to remove applied coupon: %w", err)
	}
	return nil
}

// GetApplied returns the coupon the user has applied, revalidated against the
// current subtotal. A coupon that no longer validates is cleared.
func (s *Service) GetApplied(ctx context.Context, userID uint, subtotal int64) (*ApplyResponse, error) {
	code, err := s.redis.Get(ctx, appliedKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoneApplied
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read applied coupon: %w", err)
	}

	c, err := s.Validate(code, subtotal)
	if err != nil {
		s.redis.Del(ctx, appliedKey(userID))
		return nil, err
	}
	return &ApplyResponse{Coupon: c, Discount: c.DiscountFor(subtotal)}, nil
}

// Consume increments the usage count after a successful order and clears the
// applied marker.
func (s *Service) Consume(ctx context.Context, userID uint, couponID uint) error {
	err := s.db.Model(&Coupon{}).
		Where("id = ?", couponID).
		Update("used_count", gorm.Expr("used_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to record coupon use: %w", err)
	}
	s.redis.Del(ctx, appliedKey(userID))
	return nil
}

// ListCoupons retrieves all coupons for the admin panel
func (s *Service) ListCoupons() ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve coupons: %w", err)
	}
	return coupons, nil
}

// CreateCoupon creates a new coupon
func (s *Service) CreateCoupon(req *CreateRequest) (*Coupon, error) {
	code := normalizeCode(req.Code)

	var existing Coupon
	if result := s.db.Unscoped().Where("code = ?", code).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("coupon with code %s already exists", code)
	}

	if req.Type == TypePercentage && req.Value > 100 {
		return nil, fmt.Errorf("percentage coupon value cannot exceed 100")
	}

	c := Coupon{
		Code:          code,
		Description:   req.Description,
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		ExpiresAt:     req.ExpiresAt,
		UsageLimit:    req.UsageLimit,
		IsActive:      req.IsActive,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return &c, nil
}

// UpdateCoupon updates an existing coupon
func (s *Service) UpdateCoupon(id uint, req *UpdateRequest) (*Coupon, error) {
	var c Coupon
	if result := s.db.First(&c, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find coupon: %w", result.Error)
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Value != nil {
		if *req.Value <= 0 {
			return nil, fmt.Errorf("coupon value must be positive")
		}
		if c.Type == TypePercentage && *req.Value > 100 {
			return nil, fmt.Errorf("percentage coupon value cannot exceed 100")
		}
		updates["value"] = *req.Value
	}
	if req.MinOrderValue != nil {
		updates["min_order_value"] = *req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		updates["max_discount"] = *req.MaxDiscount
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
	}
	return &c, nil
}

// DeleteCoupon soft deletes a coupon
func (s *Service) DeleteCoupon(id uint) error {
	result := s.db.Delete(&Coupon{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
