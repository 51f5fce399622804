package product

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
)

// ErrNotFound is returned when a product or category does not exist
var ErrNotFound = errors.New("product not found")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	Category   string `form:"category"` // Category slug
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsFeatured *bool  `form:"featured"`
	InStock    *bool  `form:"in_stock"`
}

// AdminListRequest adds admin-only filters on top of the public listing
type AdminListRequest struct {
	ListRequest
	IsActive *bool `form:"is_active"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	SKU          string   `json:"sku" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        int64    `json:"price" binding:"required,gt=0"`
	ComparePrice int64    `json:"compare_price"`
	Unit         string   `json:"unit"`
	CategoryID   uint     `json:"category_id" binding:"required"`
	IsActive     bool     `json:"is_active"`
	IsFeatured   bool     `json:"is_featured"`
	Quantity     int      `json:"quantity"`
	Images       []string `json:"images"`
}

// UpdateRequest represents product update data
type UpdateRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Price        *int64    `json:"price"`
	ComparePrice *int64    `json:"compare_price"`
	Unit         *string   `json:"unit"`
	CategoryID   *uint     `json:"category_id"`
	IsActive     *bool     `json:"is_active"`
	IsFeatured   *bool     `json:"is_featured"`
	Quantity     *int      `json:"quantity"`
	Images       *[]string `json:"images"`
}

// ListResponse represents product response with pagination
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves active products with filtering and pagination
func (s *Service) GetProducts(req *ListRequest) (*ListResponse, error) {
	query := s.baseQuery().Where("products.is_active = ?", true)
	return s.list(query, req)
}

// GetProductsAdmin retrieves products without the active filter
func (s *Service) GetProductsAdmin(req *AdminListRequest) (*ListResponse, error) {
	query := s.baseQuery()
	if req.IsActive != nil {
		query = query.Where("products.is_active = ?", *req.IsActive)
	}
	return s.list(query, &req.ListRequest)
}

func (s *Service) baseQuery() *gorm.DB {
	return s.db.Model(&Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})
}

func (s *Service) list(query *gorm.DB, req *ListRequest) (*ListResponse, error) {
	var products []Product
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	if req.Category != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", req.Category)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("products.price >= ?", req.MinPrice)
	}

	if req.MaxPrice > 0 {
		query = query.Where("products.price <= ?", req.MaxPrice)
	}

	if req.IsFeatured != nil {
		query = query.Where("products.is_featured = ?", *req.IsFeatured)
	}

	if req.InStock != nil && *req.InStock {
		query = query.Where("products.quantity > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single active product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.baseQuery().
		Where("products.id = ? AND products.is_active = ?", id, true).
		First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetProductBySlug retrieves a single active product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	result := s.baseQuery().
		Where("products.slug = ? AND products.is_active = ?", slug, true).
		First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetFeatured retrieves the featured active products for the home page
func (s *Service) GetFeatured(limit int) ([]Product, error) {
	if limit < 1 || limit > 50 {
		limit = 8
	}
	var products []Product
	err := s.baseQuery().
		Where("products.is_active = ? AND products.is_featured = ?", true, true).
		Order("products.created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve featured products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *CreateRequest) (*Product, error) {
	var existing Product
	if result := s.db.Unscoped().Where("sku = ?", req.SKU).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("product with SKU %s already exists", req.SKU)
	}

	var category Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	slug, err := s.uniqueSlug(req.Name)
	if err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}

	product := Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Slug:         slug,
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Unit:         unit,
		CategoryID:   req.CategoryID,
		IsActive:     req.IsActive,
		IsFeatured:   req.IsFeatured,
		Quantity:     req.Quantity,
	}
	for i, url := range req.Images {
		product.Images = append(product.Images, ProductImage{URL: url, SortOrder: i})
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").Preload("Images").First(&product, product.ID)
	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *UpdateRequest) (*Product, error) {
	var product Product
	if result := s.db.Where("id = ?", id).First(&product); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != product.Name {
		slug, err := s.uniqueSlug(*req.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("price must be positive")
		}
		updates["price"] = *req.Price
	}
	if req.ComparePrice != nil {
		updates["compare_price"] = *req.ComparePrice
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.CategoryID != nil {
		var category Category
		if err := s.db.First(&category, *req.CategoryID).Error; err != nil {
			return nil, fmt.Errorf("category not found")
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("quantity cannot be negative")
		}
		updates["quantity"] = *req.Quantity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}
		if req.Images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to replace product images: %w", err)
			}
			for i, url := range *req.Images {
				img := ProductImage{ProductID: product.ID, URL: url, SortOrder: i}
				if err := tx.Create(&img).Error; err != nil {
					return fmt.Errorf("failed to replace product images: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Category").Preload("Images").First(&product, product.ID)
	return &product, nil
}

// DeleteProduct soft deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// buildOrderClause builds the ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
		"updated_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("products.%s %s", sortBy, sortOrder)
}

// uniqueSlug derives a URL-friendly slug from the name, suffixing a counter
// when the plain slug is taken.
func (s *Service) uniqueSlug(name string) (string, error) {
	base := Slugify(name)
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Unscoped().Model(&Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Slugify converts a name into a lowercase hyphenated slug
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
