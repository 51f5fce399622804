package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/domain/booking"
	"github.com/haritfarms/storefront-backend/internal/domain/cart"
	"github.com/haritfarms/storefront-backend/internal/domain/coupon"
	"github.com/haritfarms/storefront-backend/internal/domain/order"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
	"github.com/haritfarms/storefront-backend/internal/domain/wishlist"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},
		&user.Address{},
		&user.PasswordReset{},

		&product.Category{},
		&product.Product{},
		&product.ProductImage{},
		&product.Review{},
		&product.ReviewImage{},

		&cart.CartItem{},
		&wishlist.Item{},
		&coupon.Coupon{},

		&order.Order{},
		&order.OrderItem{},
		&order.StatusHistory{},

		&booking.Booking{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes beyond what the model tags declare
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",

		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at)",

		"CREATE INDEX IF NOT EXISTS idx_reviews_product_approved ON reviews(product_id, is_approved)",

		"CREATE INDEX IF NOT EXISTS idx_bookings_status_date ON farm_visit_bookings(status, visit_date)",

		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",

		"CREATE INDEX IF NOT EXISTS idx_password_resets_user ON password_resets(user_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData inserts the default admin account and starter catalog data.
// Every seed is idempotent so repeated startups are safe.
func (m *Migration) SeedInitialData() error {
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	if err := m.db.Where("email = ?", "admin@haritfarms.com").First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := user.User{
		Email:    "admin@haritfarms.com",
		Password: string(hashed),
		Name:     "Farm Admin",
		IsActive: true,
		IsAdmin:  true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Created admin user: admin@haritfarms.com")
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []product.Category{
		{Name: "Fresh Vegetables", Slug: "fresh-vegetables", Description: "Seasonal vegetables picked the same morning", IsActive: true},
		{Name: "Fruits", Slug: "fruits", Description: "Orchard fruits grown without synthetic pesticides", IsActive: true},
		{Name: "Dairy", Slug: "dairy", Description: "Milk, ghee and paneer from our own cattle", IsActive: true},
		{Name: "Grains & Pulses", Slug: "grains-pulses", Description: "Sun-dried grains, millets and pulses", IsActive: true},
		{Name: "Honey & Preserves", Slug: "honey-preserves", Description: "Raw honey and small-batch preserves", IsActive: true},
	}

	for _, category := range categories {
		var existing product.Category
		if err := m.db.Where("slug = ?", category.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := m.db.Create(&category).Error; err != nil {
			return err
		}
	}

	return nil
}

func (m *Migration) seedProducts() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var vegetables product.Category
	if err := m.db.Where("slug = ?", "fresh-vegetables").First(&vegetables).Error; err != nil {
		return err
	}
	var dairy product.Category
	if err := m.db.Where("slug = ?", "dairy").First(&dairy).Error; err != nil {
		return err
	}

	products := []product.Product{
		{
			SKU:         "VEG-TOM-001",
			Name:        "Desi Tomatoes",
			Slug:        "desi-tomatoes",
			Description: "Vine-ripened desi tomatoes, sold per kilogram.",
			Price:       4500,
			Unit:        "kg",
			CategoryID:  vegetables.ID,
			IsActive:    true,
			IsFeatured:  true,
			Quantity:    100,
		},
		{
			SKU:         "VEG-SPN-001",
			Name:        "Spinach Bunch",
			Slug:        "spinach-bunch",
			Description: "Tender spinach harvested at dawn.",
			Price:       2500,
			Unit:        "bunch",
			CategoryID:  vegetables.ID,
			IsActive:    true,
			Quantity:    60,
		},
		{
			SKU:          "DRY-GHE-001",
			Name:         "A2 Cow Ghee",
			Slug:         "a2-cow-ghee",
			Description:  "Bilona-churned A2 ghee in a 500ml glass jar.",
			Price:        85000,
			ComparePrice: 95000,
			Unit:         "jar",
			CategoryID:   dairy.ID,
			IsActive:     true,
			IsFeatured:   true,
			Quantity:     40,
		},
	}

	for _, p := range products {
		if err := m.db.Create(&p).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d starter products", len(products))
	return nil
}
