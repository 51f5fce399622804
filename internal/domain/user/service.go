package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/pkg/auth"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned on a failed login attempt. Kept generic
// so callers never leak whether the email exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountBlocked is returned when a blocked user attempts to log in
var ErrAccountBlocked = errors.New("account is blocked")

// ErrNotFound is returned when a user does not exist
var ErrNotFound = errors.New("user not found")

// Service handles user business logic
type Service struct {
	db           *gorm.DB
	config       *config.Config
	passwords    *auth.PasswordManager
	tokens       *auth.JWTManager
	emailService *email.Service
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, emailService *email.Service) *Service {
	return &Service{
		db:           db,
		config:       cfg,
		passwords:    auth.NewPasswordManager(cfg),
		tokens:       auth.NewJWTManager(cfg),
		emailService: emailService,
	}
}

// RegisterRequest represents signup data
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest represents login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile edit data
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// TokenPair holds freshly issued access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned from register/login
type AuthResponse struct {
	User   *User     `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Register creates a new customer account and sends the welcome email
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	if err := s.db.Where("email = ?", normalized).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("an account with this email already exists")
	}

	hashed, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	newUser := User{
		Email:    normalized,
		Password: hashed,
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		IsActive: true,
	}

	if err := s.db.Create(&newUser).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(&newUser)
	if err != nil {
		return nil, err
	}

	s.emailService.SendWelcome(newUser.Email, newUser.Name)

	return &AuthResponse{User: &newUser, Tokens: *tokens}, nil
}

// Login authenticates a user and stamps the last-login time
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&u).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwords.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountBlocked
	}

	now := time.Now().UTC()
	s.db.Model(&u).Update("last_login_at", now)
	u.LastLoginAt = &now

	tokens, err := s.issueTokens(&u)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: &u, Tokens: *tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var u User
	if err := s.db.First(&u, claims.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}
	if !u.IsActive {
		return nil, ErrAccountBlocked
	}

	return s.issueTokens(&u)
}

// GetProfile returns the user's profile
func (s *Service) GetProfile(userID uint) (*User, error) {
	var u User
	if err := s.db.Preload("Addresses").First(&u, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return &u, nil
}

// UpdateProfile edits display name and phone
func (s *Service) UpdateProfile(userID uint, req *UpdateProfileRequest) (*User, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Phone != "" {
		updates["phone"] = strings.TrimSpace(req.Phone)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return &u, nil
}

// ForgotPassword issues a single-use OTP and emails it. Always reports
// success so the endpoint cannot be used to enumerate accounts.
func (s *Service) ForgotPassword(emailAddr string) error {
	var u User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(emailAddr))).First(&u).Error; err != nil {
		return nil
	}

	code, err := auth.GenerateOTP(6)
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	reset := PasswordReset{
		UserID:    u.ID,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(s.config.Security.OTPExpiry),
	}
	if err := s.db.Create(&reset).Error; err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	s.emailService.SendPasswordOTP(u.Email, u.Name, code, s.config.Security.OTPExpiry)
	return nil
}

// VerifyOTPRequest represents OTP-based password reset data
type VerifyOTPRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// VerifyOTP consumes a valid reset code and sets the new password
func (s *Service) VerifyOTP(req *VerifyOTPRequest) error {
	var u User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&u).Error; err != nil {
		return fmt.Errorf("invalid or expired code")
	}

	var reset PasswordReset
	err := s.db.Where("user_id = ? AND code = ? AND used = ?", u.ID, req.Code, false).
		Order("created_at DESC").First(&reset).Error
	if err != nil || reset.IsExpired() {
		return fmt.Errorf("invalid or expired code")
	}

	hashed, err := s.passwords.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&u).Update("password", hashed).Error; err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := tx.Model(&reset).Update("used", true).Error; err != nil {
			return fmt.Errorf("failed to consume reset code: %w", err)
		}
		return nil
	})
}

func (s *Service) issueTokens(u *User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
