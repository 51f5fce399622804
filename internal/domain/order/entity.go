package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

// Status represents the order lifecycle state
type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusReturned       Status = "returned"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment methods
const (
	MethodCOD    = "cod"
	MethodOnline = "online"
)

// validTransitions is the closed set of allowed status moves. Anything not
// listed here is rejected, including by the admin force-update path.
var validTransitions = map[Status][]Status{
	StatusPending:        {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {StatusReturned},
	StatusCancelled:      {},
	StatusReturned:       {},
}

// CanTransition reports whether a status move is allowed
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order represents a placed order. All amounts are in minor currency units.
// The shipping address and line items are snapshots taken at placement, so
// later catalog or address edits never rewrite order history.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	Status        Status        `gorm:"not null;default:'pending';size:20" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending';size:20" json:"payment_status"`
	PaymentMethod string        `gorm:"not null;size:20" json:"payment_method"`

	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"`
	DiscountAmount int64 `gorm:"default:0" json:"discount_amount"`
	ShippingAmount int64 `gorm:"default:0" json:"shipping_amount"`
	TaxAmount      int64 `gorm:"default:0" json:"tax_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	CouponID   *uint  `json:"coupon_id,omitempty"`
	CouponCode string `gorm:"size:50" json:"coupon_code,omitempty"`

	Currency        string          `gorm:"size:3;default:'INR'" json:"currency"`
	Notes           string          `gorm:"type:text" json:"notes"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	// Online payment gateway references
	GatewayOrderID   string `gorm:"size:100;index" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string `gorm:"size:100" json:"gateway_payment_id,omitempty"`

	ProcessedAt *time.Time     `json:"processed_at"`
	ShippedAt   *time.Time     `json:"shipped_at"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	CancelledAt *time.Time     `json:"cancelled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a line-item snapshot of a product at placement time
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	SKU        string    `gorm:"not null;size:100" json:"sku"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Unit       string    `gorm:"size:20" json:"unit"`
	ImageURL   string    `gorm:"size:500" json:"image_url"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      int64     `gorm:"not null" json:"price"`       // Unit price at placement
	TotalPrice int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt  time.Time `json:"created_at"`
}

// StatusHistory records every status change with who made it
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null;size:20" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ShippingAddress is the delivery address snapshot embedded in the order
type ShippingAddress struct {
	FullName     string `gorm:"size:255" json:"full_name"`
	Phone        string `gorm:"size:20" json:"phone"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:2" json:"country"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// GenerateOrderNumber builds a unique human-readable order number
func GenerateOrderNumber() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(100000))
	return fmt.Sprintf("ORD-%s-%05d", time.Now().UTC().Format("20060102150405"), n.Int64())
}

// CanBeCancelled reports whether the customer may still cancel
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// IsPaid reports whether payment has been captured
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentCompleted
}
