package user

import (
	"fmt"

	"github.com/haritfarms/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// AddressService handles saved shipping addresses
type AddressService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB, cfg *config.Config) *AddressService {
	return &AddressService{db: db, config: cfg}
}

// AddressRequest represents address create/update data
type AddressRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

// ListAddresses returns all saved addresses for a user
func (s *AddressService) ListAddresses(userID uint) ([]Address, error) {
	var addresses []Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress returns one address owned by the user
func (s *AddressService) GetAddress(userID, addressID uint) (*Address, error) {
	var address Address
	err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		return nil, fmt.Errorf("address not found")
	}
	return &address, nil
}

// CreateAddress saves a new address, switching the default flag if requested
func (s *AddressService) CreateAddress(userID uint, req *AddressRequest) (*Address, error) {
	address := Address{
		UserID:       userID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	}
	if address.Country == "" {
		address.Country = "IN"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&Address{}).Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return &address, nil
}

// UpdateAddress edits an address owned by the user
func (s *AddressService) UpdateAddress(userID, addressID uint, req *AddressRequest) (*Address, error) {
	address, err := s.GetAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !address.IsDefault {
			if err := tx.Model(&Address{}).Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		updates := map[string]interface{}{
			"full_name":     req.FullName,
			"phone":         req.Phone,
			"address_line1": req.AddressLine1,
			"address_line2": req.AddressLine2,
			"city":          req.City,
			"state":         req.State,
			"postal_code":   req.PostalCode,
			"is_default":    req.IsDefault,
		}
		if req.Country != "" {
			updates["country"] = req.Country
		}
		return tx.Model(address).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return s.GetAddress(userID, addressID)
}

// DeleteAddress removes an address owned by the user
func (s *AddressService) DeleteAddress(userID, addressID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("address not found")
	}
	return nil
}
