package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog item. Prices are in minor currency units
// (paise).
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SKU          string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        int64          `gorm:"not null" json:"price"`
	ComparePrice int64          `json:"compare_price"` // Original price for discount display
	Unit         string         `gorm:"size:20;default:'kg'" json:"unit"`
	CategoryID   uint           `gorm:"not null;index" json:"category_id"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsFeatured   bool           `gorm:"default:false" json:"is_featured"`
	Quantity     int            `gorm:"default:0" json:"quantity"` // Stock on hand
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Category Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// Category represents a product category. ParentID allows a hierarchy in the
// schema; the storefront currently lists categories flat.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	Image       string         `gorm:"size:500" json:"image"`
	ParentID    *uint          `gorm:"index" json:"parent_id"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// ProductImage represents a product image URL
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// Review represents a customer product review. At most one review exists per
// (user, product) pair, enforced by a pre-insert existence check plus a
// composite unique index.
type Review struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ProductID          uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"product_id"`
	UserID             uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	Rating             int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title              string         `gorm:"size:255" json:"title"`
	Comment            string         `gorm:"type:text;not null" json:"comment"`
	IsApproved         bool           `gorm:"default:false" json:"is_approved"`
	IsVerifiedPurchase bool           `gorm:"default:false" json:"is_verified_purchase"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Images []ReviewImage `gorm:"foreignKey:ReviewID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// ReviewImage represents an image attached to a review
type ReviewImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"review_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (Category) TableName() string     { return "categories" }
func (ProductImage) TableName() string { return "product_images" }
func (Review) TableName() string       { return "reviews" }
func (ReviewImage) TableName() string  { return "review_images" }

// IsInStock reports whether the product can be added to a cart
func (p *Product) IsInStock() bool {
	return p.Quantity > 0
}

// DiscountPercentage derives the displayed discount from the compare-at price
func (p *Product) DiscountPercentage() int {
	if p.ComparePrice > 0 && p.Price < p.ComparePrice {
		return int(((p.ComparePrice - p.Price) * 100) / p.ComparePrice)
	}
	return 0
}
