package order

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "orders.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&user.User{},
		&product.Category{},
		&product.Product{},
		&Order{},
		&OrderItem{},
		&StatusHistory{},
	)
	require.NoError(t, err)

	cfg := &config.Config{}
	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewService(db, cfg, log, email.NewService(cfg, log), nil, nil, nil), db
}

// seedOnlineOrder creates a pending online order for `reserved` units of a
// product with `stock` units left on hand, as PlaceOrder leaves them.
func seedOnlineOrder(t *testing.T, db *gorm.DB, stock, reserved int) (*Order, *product.Product) {
	t.Helper()

	u := user.User{Email: "asha@example.com", Password: "x", Name: "Asha", IsActive: true}
	require.NoError(t, db.Create(&u).Error)

	cat := product.Category{Name: "Fresh Vegetables", Slug: "fresh-vegetables"}
	require.NoError(t, db.Create(&cat).Error)

	prod := product.Product{
		SKU:        "VEG-TOM-001",
		Name:       "Desi Tomatoes",
		Slug:       "desi-tomatoes",
		Price:      4500,
		CategoryID: cat.ID,
		IsActive:   true,
		Quantity:   stock,
	}
	require.NoError(t, db.Create(&prod).Error)

	o := Order{
		OrderNumber:    GenerateOrderNumber(),
		UserID:         u.ID,
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		PaymentMethod:  MethodOnline,
		SubtotalAmount: int64(reserved) * prod.Price,
		TotalAmount:    int64(reserved) * prod.Price,
		Currency:       "INR",
		Items: []OrderItem{{
			ProductID:  prod.ID,
			SKU:        prod.SKU,
			Name:       prod.Name,
			Quantity:   reserved,
			Price:      prod.Price,
			TotalPrice: int64(reserved) * prod.Price,
		}},
	}
	require.NoError(t, db.Create(&o).Error)
	return &o, &prod
}

func TestMarkPaidMovesOrderToProcessing(t *testing.T) {
	svc, db := newTestService(t)
	o, _ := seedOnlineOrder(t, db, 3, 2)

	updated, err := svc.MarkPaid(o.OrderNumber, "pay_test_123")
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, updated.Status)
	require.Equal(t, PaymentCompleted, updated.PaymentStatus)
	require.Equal(t, "pay_test_123", updated.GatewayPaymentID)
	require.NotNil(t, updated.ProcessedAt)

	require.Len(t, updated.StatusHistory, 1)
	require.Equal(t, StatusProcessing, updated.StatusHistory[0].Status)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	o, _ := seedOnlineOrder(t, db, 3, 2)

	_, err := svc.MarkPaid(o.OrderNumber, "pay_test_123")
	require.NoError(t, err)

	// A late webhook for the same order must not rewrite anything
	again, err := svc.MarkPaid(o.OrderNumber, "pay_other")
	require.NoError(t, err)
	require.Equal(t, "pay_test_123", again.GatewayPaymentID)
	require.Equal(t, StatusProcessing, again.Status)
	require.Len(t, again.StatusHistory, 1)
}

func TestMarkPaidLeavesAdvancedOrderAlone(t *testing.T) {
	svc, db := newTestService(t)
	o, _ := seedOnlineOrder(t, db, 3, 2)

	require.NoError(t, db.Model(&Order{}).Where("id = ?", o.ID).
		Update("status", StatusShipped).Error)

	updated, err := svc.MarkPaid(o.OrderNumber, "pay_test_123")
	require.NoError(t, err)
	require.Equal(t, PaymentCompleted, updated.PaymentStatus)
	require.Equal(t, StatusShipped, updated.Status)
	require.Empty(t, updated.StatusHistory)
}

func TestMarkPaymentFailedCancelsOrderAndRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	o, prod := seedOnlineOrder(t, db, 3, 2)

	require.NoError(t, svc.MarkPaymentFailed(o.OrderNumber))

	reloaded, err := svc.GetByID(o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, reloaded.Status)
	require.Equal(t, PaymentFailed, reloaded.PaymentStatus)
	require.NotNil(t, reloaded.CancelledAt)
	require.Len(t, reloaded.StatusHistory, 1)
	require.Equal(t, StatusCancelled, reloaded.StatusHistory[0].Status)

	var fresh product.Product
	require.NoError(t, db.First(&fresh, prod.ID).Error)
	require.Equal(t, 5, fresh.Quantity)

	// A repeated failure report must not restore stock twice
	require.NoError(t, svc.MarkPaymentFailed(o.OrderNumber))
	require.NoError(t, db.First(&fresh, prod.ID).Error)
	require.Equal(t, 5, fresh.Quantity)
}
