package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service handles all transactional email operations. Sends are
// fire-and-forget: callers use the Send* helpers which dispatch in a
// goroutine and log failures without propagating them.
type Service struct {
	config    *config.Config
	log       *logrus.Logger
	templates map[string]*template.Template
	dialer    *gomail.Dialer
}

// NewService creates a new email service
func NewService(cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		config:    cfg,
		log:       log,
		templates: parseTemplates(),
		dialer: gomail.NewDialer(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
		),
	}
}

// baseData builds the template data shared by every email
func (s *Service) baseData(userName string) TemplateData {
	return TemplateData{
		SiteName:    s.config.Email.FromName,
		SiteURL:     s.config.App.BaseURL,
		SupportMail: s.config.Email.SupportEmail,
		UserName:    userName,
		Year:        time.Now().UTC().Year(),
	}
}

// render executes a named template with data
func (s *Service) render(name string, data interface{}) (string, error) {
	tmpl, exists := s.templates[name]
	if !exists {
		return "", fmt.Errorf("email template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

// deliver sends a message over SMTP
func (s *Service) deliver(msg *Message) error {
	if s.config.Email.SMTPHost == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.Email.FromEmail, s.config.Email.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLContent)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendTest synchronously delivers a plain message so SMTP settings can be
// verified from the command line.
func (s *Service) SendTest(to string) error {
	return s.deliver(&Message{
		To:          to,
		Subject:     "Harit Farms SMTP test",
		HTMLContent: "<p>SMTP delivery from the storefront backend is working.</p>",
		Type:        "test",
	})
}

// dispatch renders and sends in the background. Email delivery is never part
// of the transactional outcome the caller depends on.
func (s *Service) dispatch(emailType Type, templateName, to, subject string, data interface{}) {
	go func() {
		body, err := s.render(templateName, data)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"email_type": emailType,
				"to":         to,
			}).Error("failed to render email")
			return
		}

		msg := &Message{To: to, Subject: subject, HTMLContent: body, Type: emailType}
		if err := s.deliver(msg); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"email_type": emailType,
				"to":         to,
			}).Error("failed to send email")
			return
		}

		s.log.WithFields(logrus.Fields{
			"email_type": emailType,
			"to":         to,
		}).Info("email sent")
	}()
}

// SendWelcome sends the signup welcome email
func (s *Service) SendWelcome(to, userName string) {
	data := struct{ TemplateData }{s.baseData(userName)}
	s.dispatch(TypeWelcome, string(TypeWelcome), to,
		fmt.Sprintf("Welcome to %s!", s.config.Email.FromName), data)
}

// SendPasswordOTP sends the password-reset one-time code
func (s *Service) SendPasswordOTP(to, userName, code string, expiry time.Duration) {
	data := OTPEmailData{
		TemplateData:  s.baseData(userName),
		Code:          code,
		ExpiryMinutes: int(expiry.Minutes()),
	}
	s.dispatch(TypePasswordOTP, string(TypePasswordOTP), to, "Your password reset code", data)
}

// SendOrderConfirmation sends the order-placed email
func (s *Service) SendOrderConfirmation(to string, data OrderEmailData) {
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypeOrderConfirmation, string(TypeOrderConfirmation), to,
		fmt.Sprintf("Order confirmed - %s", data.OrderNumber), data)
}

// SendOrderCancelled sends the order-cancelled email
func (s *Service) SendOrderCancelled(to string, data OrderEmailData) {
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypeOrderCancelled, string(TypeOrderCancelled), to,
		fmt.Sprintf("Order cancelled - %s", data.OrderNumber), data)
}

// SendOrderShipped sends the order-shipped email
func (s *Service) SendOrderShipped(to string, data OrderEmailData) {
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypeOrderShipped, string(TypeOrderShipped), to,
		fmt.Sprintf("Order shipped - %s", data.OrderNumber), data)
}

// SendOrderOutForDelivery sends the out-for-delivery email
func (s *Service) SendOrderOutForDelivery(to string, data OrderEmailData) {
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypeOrderOutForDelivery, string(TypeOrderOutForDelivery), to,
		fmt.Sprintf("Out for delivery - %s", data.OrderNumber), data)
}

// SendOrderDelivered sends the order-delivered email
func (s *Service) SendOrderDelivered(to string, data OrderEmailData) {
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypeOrderDelivered, string(TypeOrderDelivered), to,
		fmt.Sprintf("Order delivered - %s", data.OrderNumber), data)
}

// SendPaymentSuccess sends the payment-verified email
func (s *Service) SendPaymentSuccess(to string, data PaymentEmailData) {
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypePaymentSuccess, string(TypePaymentSuccess), to,
		fmt.Sprintf("Payment received - %s", data.OrderNumber), data)
}

// SendPaymentFailed sends the payment-failed email
func (s *Service) SendPaymentFailed(to string, data PaymentEmailData) {
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypePaymentFailed, string(TypePaymentFailed), to,
		fmt.Sprintf("Payment failed - %s", data.OrderNumber), data)
}

// SendBookingApproved sends the farm-visit approval email
func (s *Service) SendBookingApproved(to string, data BookingEmailData) {
	data.TemplateData = s.baseData(data.VisitorName)
	s.dispatch(TypeBookingApproved, string(TypeBookingApproved), to,
		fmt.Sprintf("Farm visit confirmed - %s", data.BookingNumber), data)
}

// SendBookingRejected sends the farm-visit rejection email
func (s *Service) SendBookingRejected(to string, data BookingEmailData) {
	data.TemplateData = s.baseData(data.VisitorName)
	s.dispatch(TypeBookingRejected, string(TypeBookingRejected), to,
		fmt.Sprintf("About your farm visit request - %s", data.BookingNumber), data)
}

// SendReviewThanks sends the tiered review thank-you email. The tone varies
// by star rating: celebratory for 4-5, neutral for 3, apologetic with a
// support contact for 1-2.
func (s *Service) SendReviewThanks(to string, data ReviewEmailData) {
	templateName := ReviewThanksTemplate(data.Rating)
	data.TemplateData = s.baseData(data.UserName)
	s.dispatch(TypeReviewThanks, templateName, to,
		fmt.Sprintf("Thanks for reviewing %s", data.ProductName), data)
}

// ReviewThanksTemplate picks the review thank-you template for a rating.
func ReviewThanksTemplate(rating int) string {
	switch {
	case rating >= 4:
		return "review_thanks_high"
	case rating <= 2:
		return "review_thanks_low"
	default:
		return "review_thanks_mid"
	}
}
