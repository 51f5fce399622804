package cart

import (
	"time"

	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/domain/product"
)

// CartItem represents one product line in a user's cart. Price is the unit
// price captured when the item was added, in minor currency units.
type CartItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	Price     int64          `gorm:"not null" json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product product.Product `gorm:"foreignKey:ProductID" json:"product"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique items
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`
}
