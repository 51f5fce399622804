package product

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ParentID    *uint  `json:"parent_id"`
	IsActive    bool   `json:"is_active"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	ParentID    *uint   `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryWithProductCount represents a category with its active product count
type CategoryWithProductCount struct {
	Category
	ProductCount int64 `json:"product_count"`
}

// GetCategories retrieves categories ordered by name
func (s *CategoryService) GetCategories(includeInactive bool) ([]Category, error) {
	var categories []Category

	query := s.db.Model(&Category{}).Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoriesWithCounts retrieves active categories with their product counts
func (s *CategoryService) GetCategoriesWithCounts() ([]CategoryWithProductCount, error) {
	categories, err := s.GetCategories(false)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryWithProductCount, 0, len(categories))
	for _, c := range categories {
		var count int64
		err := s.db.Model(&Product{}).
			Where("category_id = ? AND is_active = ?", c.ID, true).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count category products: %w", err)
		}
		out = append(out, CategoryWithProductCount{Category: c, ProductCount: count})
	}
	return out, nil
}

// GetCategoryBySlug retrieves a single active category by slug
func (s *CategoryService) GetCategoryBySlug(slug string) (*Category, error) {
	var category Category
	result := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", result.Error)
	}
	return &category, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	slug := Slugify(req.Name)

	var existing Category
	if result := s.db.Unscoped().Where("slug = ?", slug).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("category with slug %s already exists", slug)
	}

	if req.ParentID != nil {
		var parent Category
		if err := s.db.First(&parent, *req.ParentID).Error; err != nil {
			return nil, fmt.Errorf("parent category not found")
		}
	}

	category := Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
		ParentID:    req.ParentID,
		IsActive:    req.IsActive,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *CategoryService) UpdateCategory(id uint, req *CategoryUpdateRequest) (*Category, error) {
	var category Category
	if result := s.db.First(&category, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to find category: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != category.Name {
		slug := Slugify(*req.Name)
		var count int64
		if err := s.db.Unscoped().Model(&Category{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if count > 0 {
			return nil, fmt.Errorf("category with slug %s already exists", slug)
		}
		updates["name"] = *req.Name
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, fmt.Errorf("category cannot be its own parent")
		}
		updates["parent_id"] = *req.ParentID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}
	return &category, nil
}

// DeleteCategory soft deletes a category that has no products
func (s *CategoryService) DeleteCategory(id uint) error {
	var productCount int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check category products: %w", err)
	}
	if productCount > 0 {
		return fmt.Errorf("cannot delete category with %d products", productCount)
	}

	result := s.db.Delete(&Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}
