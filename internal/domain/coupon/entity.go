package coupon

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount types
const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

// Coupon represents a discount code. Value is a percentage for percentage
// coupons and a minor-unit amount for fixed coupons. MinOrderValue and
// MaxDiscount are in minor currency units; zero means no limit.
type Coupon struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Code          string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Description   string         `gorm:"size:255" json:"description"`
	Type          string         `gorm:"not null;size:20" json:"type"`
	Value         int64          `gorm:"not null" json:"value"`
	MinOrderValue int64          `gorm:"default:0" json:"min_order_value"`
	MaxDiscount   int64          `gorm:"default:0" json:"max_discount"`
	ExpiresAt     *time.Time     `json:"expires_at"`
	UsageLimit    int            `gorm:"default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount     int            `gorm:"default:0" json:"used_count"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}

// IsExpired reports whether the coupon is past its expiry
func (c *Coupon) IsExpired() bool {
	return c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt)
}

// IsExhausted reports whether the usage limit has been reached
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// DiscountFor computes the discount for a cart subtotal in minor currency
// units. The discount never exceeds the subtotal.
func (c *Coupon) DiscountFor(subtotal int64) int64 {
	var discount int64
	switch c.Type {
	case TypePercentage:
		discount = subtotal * c.Value / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case TypeFixed:
		discount = c.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
