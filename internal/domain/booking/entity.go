package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

// Status represents the booking review state
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Booking represents a farm-visit booking request. Contact details are
// captured on the booking itself so a visit can be requested without an
// account; UserID is set when the requester was logged in.
type Booking struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	BookingNumber   string         `gorm:"uniqueIndex;not null;size:50" json:"booking_number"`
	UserID          *uint          `gorm:"index" json:"user_id,omitempty"`
	Name            string         `gorm:"not null;size:255" json:"name"`
	Email           string         `gorm:"not null;size:255" json:"email"`
	Phone           string         `gorm:"not null;size:20" json:"phone"`
	VisitDate       time.Time      `gorm:"not null;index" json:"visit_date"`
	TimeSlot        string         `gorm:"not null;size:50" json:"time_slot"`
	NumberOfGuests  int            `gorm:"not null" json:"number_of_guests"`
	Purpose         string         `gorm:"size:500" json:"purpose"`
	Status          Status         `gorm:"not null;default:'pending';size:20" json:"status"`
	RejectionReason string         `gorm:"size:500" json:"rejection_reason,omitempty"`
	ReviewedBy      *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Booking) TableName() string {
	return "farm_visit_bookings"
}

// GenerateBookingNumber builds a unique human-readable booking number
func GenerateBookingNumber() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(100000))
	return fmt.Sprintf("FVB-%s-%05d", time.Now().UTC().Format("20060102"), n.Int64())
}

// IsPending reports whether the booking still awaits review
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}
