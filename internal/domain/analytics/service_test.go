package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/booking"
	"github.com/haritfarms/storefront-backend/internal/domain/order"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "analytics.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&user.User{},
		&product.Category{},
		&product.Product{},
		&product.Review{},
		&order.Order{},
		&order.OrderItem{},
		&booking.Booking{},
	)
	require.NoError(t, err)

	return NewService(db, &config.Config{}), db
}

func seedPendingBooking(t *testing.T, db *gorm.DB, visitDate time.Time) {
	t.Helper()

	b := booking.Booking{
		BookingNumber:  booking.GenerateBookingNumber(),
		Name:           "Ravi",
		Email:          "ravi@example.com",
		Phone:          "9999999999",
		VisitDate:      visitDate,
		TimeSlot:       "morning",
		NumberOfGuests: 2,
		Status:         booking.StatusPending,
	}
	require.NoError(t, db.Create(&b).Error)
}

func TestGetDashboardOrdersPendingBookingsByVisitDate(t *testing.T) {
	svc, db := newTestService(t)

	// Created out of visit order on purpose
	base := time.Now().UTC().Truncate(24 * time.Hour)
	seedPendingBooking(t, db, base.AddDate(0, 0, 14))
	seedPendingBooking(t, db, base.AddDate(0, 0, 3))
	seedPendingBooking(t, db, base.AddDate(0, 0, 7))

	stats, err := svc.GetDashboard()
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.PendingBookings)
	require.Len(t, stats.OldestPending, 3)

	require.True(t, stats.OldestPending[0].VisitDate.Equal(base.AddDate(0, 0, 3)))
	require.True(t, stats.OldestPending[1].VisitDate.Equal(base.AddDate(0, 0, 7)))
	require.True(t, stats.OldestPending[2].VisitDate.Equal(base.AddDate(0, 0, 14)))
}

func TestGetDashboardEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.GetDashboard()
	require.NoError(t, err)
	require.Zero(t, stats.TotalProducts)
	require.Zero(t, stats.TotalOrders)
	require.Empty(t, stats.RecentOrders)
	require.Empty(t, stats.OldestPending)
}
