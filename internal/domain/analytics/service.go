package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/booking"
	"github.com/haritfarms/storefront-backend/internal/domain/order"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
)

// Service aggregates admin dashboard statistics
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// RecentOrder is an order summary row with its customer
type RecentOrder struct {
	ID          uint         `json:"id"`
	OrderNumber string       `json:"order_number"`
	Status      order.Status `json:"status"`
	TotalAmount int64        `json:"total_amount"`
	CreatedAt   time.Time    `json:"created_at"`
	UserName    string       `json:"user_name"`
	UserEmail   string       `json:"user_email"`
}

// DashboardStats represents the admin dashboard aggregation
type DashboardStats struct {
	// Counts
	TotalProducts   int64 `json:"total_products"`
	ActiveProducts  int64 `json:"active_products"`
	OutOfStock      int64 `json:"out_of_stock"`
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	TotalUsers      int64 `json:"total_users"`
	TotalBookings   int64 `json:"total_bookings"`
	PendingBookings int64 `json:"pending_bookings"`
	PendingReviews  int64 `json:"pending_reviews"`

	// Revenue over paid orders
	TotalRevenue  int64 `json:"total_revenue"`
	RevenueToday  int64 `json:"revenue_today"`
	AvgOrderValue int64 `json:"avg_order_value"`

	// Work queues
	RecentOrders  []RecentOrder     `json:"recent_orders"`
	OldestPending []booking.Booking `json:"oldest_pending_bookings"`
}

// GetDashboard builds the dashboard aggregation in one pass
func (s *Service) GetDashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalProducts, s.db.Model(&product.Product{})},
		{&stats.ActiveProducts, s.db.Model(&product.Product{}).Where("is_active = ?", true)},
		{&stats.OutOfStock, s.db.Model(&product.Product{}).Where("is_active = ? AND quantity = 0", true)},
		{&stats.TotalOrders, s.db.Model(&order.Order{})},
		{&stats.PendingOrders, s.db.Model(&order.Order{}).Where("status = ?", order.StatusPending)},
		{&stats.TotalUsers, s.db.Model(&user.User{}).Where("is_admin = ?", false)},
		{&stats.TotalBookings, s.db.Model(&booking.Booking{})},
		{&stats.PendingBookings, s.db.Model(&booking.Booking{}).Where("status = ?", booking.StatusPending)},
		{&stats.PendingReviews, s.db.Model(&product.Review{}).Where("is_approved = ?", false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count dashboard stat: %w", err)
		}
	}

	if err := s.revenue(stats); err != nil {
		return nil, err
	}

	err := s.db.Model(&order.Order{}).
		Select("orders.id, orders.order_number, orders.status, orders.total_amount, orders.created_at, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(5).
		Scan(&stats.RecentOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	err = s.db.Where("status = ?", booking.StatusPending).
		Order("visit_date ASC").
		Limit(5).
		Find(&stats.OldestPending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending bookings: %w", err)
	}

	return stats, nil
}

func (s *Service) revenue(stats *DashboardStats) error {
	paid := func() *gorm.DB {
		return s.db.Model(&order.Order{}).
			Where("payment_status = ?", order.PaymentCompleted)
	}

	var totals struct {
		Revenue int64
		Count   int64
	}
	err := paid().
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS count").
		Scan(&totals).Error
	if err != nil {
		return fmt.Errorf("failed to compute revenue: %w", err)
	}
	stats.TotalRevenue = totals.Revenue
	if totals.Count > 0 {
		stats.AvgOrderValue = totals.Revenue / totals.Count
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	err = paid().
		Where("created_at >= ?", startOfDay).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.RevenueToday).Error
	if err != nil {
		return fmt.Errorf("failed to compute revenue today: %w", err)
	}
	return nil
}
