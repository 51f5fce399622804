package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/haritfarms/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// AdminService handles admin-side user management
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{db: db, config: cfg}
}

// ListRequest represents admin user list query parameters
type ListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Search string `form:"search"`
	Active *bool  `form:"active"`
}

// ListResponse holds a page of users
type ListResponse struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ListUsers returns users with optional search and active filters
func (s *AdminService) ListUsers(req *ListRequest) (*ListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&User{})
	if req.Search != "" {
		term := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", term, term)
	}
	if req.Active != nil {
		query = query.Where("is_active = ?", *req.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []User
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &ListResponse{Users: users, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

// SetActive blocks or unblocks a user account
func (s *AdminService) SetActive(userID uint, active bool) (*User, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.db.Model(&u).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	u.IsActive = active

	return &u, nil
}
