package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/cart"
	"github.com/haritfarms/storefront-backend/internal/domain/coupon"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
)

// ErrEmptyCart is returned when checkout is attempted with no cart items
var ErrEmptyCart = errors.New("cart is empty")

// Quote represents the priced breakdown of a cart. All amounts are in minor
// currency units and total is always subtotal - discount + shipping + tax.
type Quote struct {
	SubTotal   int64  `json:"sub_total"`
	Discount   int64  `json:"discount"`
	Shipping   int64  `json:"shipping"`
	Tax        int64  `json:"tax"`
	Total      int64  `json:"total"`
	CouponID   *uint  `json:"coupon_id,omitempty"`
	CouponCode string `json:"coupon_code,omitempty"`
}

// Summary represents everything the client needs to render the checkout page
type Summary struct {
	Items     []cart.CartItem `json:"items"`
	Addresses []user.Address  `json:"addresses"`
	Quote     Quote           `json:"quote"`
}

// Service prices carts and assembles checkout summaries
type Service struct {
	db      *gorm.DB
	config  *config.Config
	carts   *cart.Service
	coupons *coupon.Service
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config, carts *cart.Service, coupons *coupon.Service) *Service {
	return &Service{
		db:      db,
		config:  cfg,
		carts:   carts,
		coupons: coupons,
	}
}

// Price computes the quote for a subtotal with an optional coupon. Shipping
// is free at or above the configured threshold and a flat fee below it. Tax
// is rounded to the nearest minor unit.
func (s *Service) Price(subtotal int64, c *coupon.Coupon) Quote {
	q := Quote{SubTotal: subtotal}

	if c != nil {
		q.Discount = c.DiscountFor(subtotal)
		q.CouponID = &c.ID
		q.CouponCode = c.Code
	}

	if subtotal > 0 && subtotal < s.config.Pricing.FreeShippingThreshold {
		q.Shipping = s.config.Pricing.FlatShippingFee
	}

	q.Tax = int64(math.Round(float64(subtotal) * s.config.Pricing.TaxRate))
	q.Total = q.SubTotal - q.Discount + q.Shipping + q.Tax
	return q
}

// QuoteCart prices the user's current cart, honoring any applied coupon
func (s *Service) QuoteCart(ctx context.Context, userID uint) (*Quote, []cart.CartItem, error) {
	cartResp, err := s.carts.GetCart(userID)
	if err != nil {
		return nil, nil, err
	}
	if len(cartResp.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	var applied *coupon.Coupon
	if resp, err := s.coupons.GetApplied(ctx, userID, cartResp.Totals.SubTotal); err == nil {
		applied = resp.Coupon
	} else if !errors.Is(err, coupon.ErrNoneApplied) &&
		!errors.Is(err, coupon.ErrExpired) &&
		!errors.Is(err, coupon.ErrInactive) &&
		!errors.Is(err, coupon.ErrExhausted) &&
		!errors.Is(err, coupon.ErrMinNotReached) {
		return nil, nil, err
	}

	q := s.Price(cartResp.Totals.SubTotal, applied)
	return &q, cartResp.Items, nil
}

// GetSummary assembles the checkout page data for the user
func (s *Service) GetSummary(ctx context.Context, userID uint) (*Summary, error) {
	q, items, err := s.QuoteCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var addresses []user.Address
	err = s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve addresses: %w", err)
	}

	return &Summary{Items: items, Addresses: addresses, Quote: *q}, nil
}
