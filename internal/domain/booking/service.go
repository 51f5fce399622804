package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
)

// Booking errors
var (
	ErrNotFound        = errors.New("booking not found")
	ErrAlreadyReviewed = errors.New("booking has already been reviewed")
	ErrPastDate        = errors.New("visit date must be in the future")
	ErrReasonRequired  = errors.New("a rejection reason is required")
)

// Service handles farm-visit booking business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Logger
	emails *email.Service
}

// NewService creates a new booking service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger, emails *email.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		log:    log,
		emails: emails,
	}
}

// CreateRequest represents a booking request
type CreateRequest struct {
	Name           string    `json:"name" binding:"required"`
	Email          string    `json:"email" binding:"required,email"`
	Phone          string    `json:"phone" binding:"required"`
	VisitDate      time.Time `json:"visit_date" binding:"required"`
	TimeSlot       string    `json:"time_slot" binding:"required"`
	NumberOfGuests int       `json:"number_of_guests" binding:"required,min=1,max=50"`
	Purpose        string    `json:"purpose"`
}

// RejectRequest represents a booking rejection
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListRequest represents booking list query parameters
type ListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Status string `form:"status"`
}

// ListResponse represents paginated bookings
type ListResponse struct {
	Bookings   []Booking          `json:"bookings"`
	Pagination product.Pagination `json:"pagination"`
}

// Create records a new booking request. UserID is nil for guests.
func (s *Service) Create(userID *uint, req *CreateRequest) (*Booking, error) {
	if !req.VisitDate.After(time.Now()) {
		return nil, ErrPastDate
	}

	b := Booking{
		BookingNumber:  GenerateBookingNumber(),
		UserID:         userID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		VisitDate:      req.VisitDate,
		TimeSlot:       req.TimeSlot,
		NumberOfGuests: req.NumberOfGuests,
		Purpose:        req.Purpose,
		Status:         StatusPending,
	}

	if err := s.db.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_number": b.BookingNumber,
		"visit_date":     b.VisitDate.Format("2006-01-02"),
		"guests":         b.NumberOfGuests,
	}).Info("Farm visit booking requested")

	return &b, nil
}

// GetUserBookings retrieves bookings made by a logged-in user
func (s *Service) GetUserBookings(userID uint, req *ListRequest) (*ListResponse, error) {
	query := s.db.Model(&Booking{}).Where("user_id = ?", userID)
	return s.list(query, req)
}

// ListBookings retrieves bookings for the admin panel, pending first
func (s *Service) ListBookings(req *ListRequest) (*ListResponse, error) {
	query := s.db.Model(&Booking{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	return s.list(query, req)
}

func (s *Service) list(query *gorm.DB, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	var bookings []Booking
	offset := (req.Page - 1) * req.Limit
	err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Bookings: bookings,
		Pagination: product.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetBooking retrieves a single booking
func (s *Service) GetBooking(id uint) (*Booking, error) {
	var b Booking
	if result := s.db.First(&b, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", result.Error)
	}
	return &b, nil
}

// Approve confirms a pending booking and emails the visitor. The status
// write is guarded on pending so two admins cannot both review it.
func (s *Service) Approve(bookingID, adminID uint) (*Booking, error) {
	return s.review(bookingID, adminID, StatusApproved, "")
}

// Reject declines a pending booking with a reason and emails the visitor
func (s *Service) Reject(bookingID, adminID uint, req *RejectRequest) (*Booking, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	return s.review(bookingID, adminID, StatusRejected, req.Reason)
}

func (s *Service) review(bookingID, adminID uint, status Status, reason string) (*Booking, error) {
	b, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsPending() {
		return nil, ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	result := s.db.Model(&Booking{}).
		Where("id = ? AND status = ?", bookingID, StatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"reviewed_by":      adminID,
			"reviewed_at":      now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to review booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyReviewed
	}

	b.Status = status
	b.RejectionReason = reason
	b.ReviewedBy = &adminID
	b.ReviewedAt = &now

	data := email.BookingEmailData{
		BookingNumber:   b.BookingNumber,
		VisitorName:     b.Name,
		PreferredDate:   b.VisitDate.Format("02 Jan 2006"),
		TimeSlot:        b.TimeSlot,
		NumberOfGuests:  b.NumberOfGuests,
		RejectionReason: reason,
	}
	if status == StatusApproved {
		s.emails.SendBookingApproved(b.Email, data)
	} else {
		s.emails.SendBookingRejected(b.Email, data)
	}

	s.log.WithFields(logrus.Fields{
		"booking_number": b.BookingNumber,
		"status":         status,
		"admin_id":       adminID,
	}).Info("Farm visit booking reviewed")

	return b, nil
}
