package email

// Type identifies the kind of transactional email being sent
type Type string

const (
	TypeWelcome             Type = "welcome"
	TypePasswordOTP         Type = "password_otp"
	TypeOrderConfirmation   Type = "order_confirmation"
	TypeOrderCancelled      Type = "order_cancelled"
	TypeOrderShipped        Type = "order_shipped"
	TypeOrderOutForDelivery Type = "order_out_for_delivery"
	TypeOrderDelivered      Type = "order_delivered"
	TypePaymentSuccess      Type = "payment_success"
	TypePaymentFailed       Type = "payment_failed"
	TypeBookingApproved     Type = "booking_approved"
	TypeBookingRejected     Type = "booking_rejected"
	TypeReviewThanks        Type = "review_thanks"
)

// Message represents an outbound email
type Message struct {
	To          string
	Subject     string
	HTMLContent string
	Type        Type
}

// TemplateData contains common data for all email templates
type TemplateData struct {
	SiteName    string
	SiteURL     string
	SupportMail string
	UserName    string
	Year        int
}

// OrderLine is a line item rendered into order emails
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

// OrderEmailData contains data for order lifecycle emails
type OrderEmailData struct {
	TemplateData
	OrderNumber    string
	OrderDate      string
	PaymentMethod  string
	Items          []OrderLine
	Subtotal       string
	ShippingAmount string
	TaxAmount      string
	DiscountAmount string
	TotalAmount    string
	TrackingNumber string
	Courier        string
	Reason         string
}

// PaymentEmailData contains data for payment notifications
type PaymentEmailData struct {
	TemplateData
	OrderNumber string
	Amount      string
	PaymentID   string
	Reason      string
}

// BookingEmailData contains data for farm-visit booking emails
type BookingEmailData struct {
	TemplateData
	BookingNumber   string
	VisitorName     string
	PreferredDate   string
	TimeSlot        string
	NumberOfGuests  int
	RejectionReason string
}

// ReviewEmailData contains data for the review thank-you email
type ReviewEmailData struct {
	TemplateData
	ProductName string
	Rating      int
}

// OTPEmailData contains data for the password-reset OTP email
type OTPEmailData struct {
	TemplateData
	Code          string
	ExpiryMinutes int
}
