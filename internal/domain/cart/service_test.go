package cart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cart.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&product.Category{}, &product.Product{}, &product.ProductImage{}, &CartItem{})
	require.NoError(t, err)

	return NewService(db, &config.Config{}), db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *product.Product {
	t.Helper()

	cat := product.Category{Name: "Fresh Vegetables", Slug: "fresh-vegetables"}
	require.NoError(t, db.Create(&cat).Error)

	prod := product.Product{
		SKU:        "VEG-SPN-001",
		Name:       "Spinach Bunch",
		Slug:       "spinach-bunch",
		Price:      2500,
		CategoryID: cat.ID,
		IsActive:   true,
		Quantity:   stock,
	}
	require.NoError(t, db.Create(&prod).Error)
	return &prod
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	svc, db := newTestService(t)
	prod := seedProduct(t, db, 10)

	_, err := svc.AddItem(1, &AddRequest{ProductID: prod.ID, Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.AddItem(1, &AddRequest{ProductID: prod.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, 5, resp.Items[0].Quantity)
	require.Equal(t, int64(5*2500), resp.Totals.SubTotal)
}

func TestUpdateItemClampsQuantityToOne(t *testing.T) {
	svc, db := newTestService(t)
	prod := seedProduct(t, db, 10)

	_, err := svc.AddItem(1, &AddRequest{ProductID: prod.ID, Quantity: 4})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(1, prod.ID, &UpdateRequest{Quantity: 0})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Items[0].Quantity)

	resp, err = svc.UpdateItem(1, prod.ID, &UpdateRequest{Quantity: -3})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Items[0].Quantity)
}

func TestUpdateItemMissingLine(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateItem(1, 999, &UpdateRequest{Quantity: 2})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	prod := seedProduct(t, db, 10)

	_, err := svc.AddItem(1, &AddRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.RemoveItem(1, prod.ID)
	require.NoError(t, err)
	require.Empty(t, resp.Items)

	resp, err = svc.RemoveItem(1, prod.ID)
	require.NoError(t, err)
	require.Empty(t, resp.Items)
}
