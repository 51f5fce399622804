package email

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haritfarms/storefront-backend/internal/config"
)

func testService() *Service {
	cfg := &config.Config{}
	cfg.App.BaseURL = "https://haritfarms.example"
	cfg.Email.FromName = "Harit Farms"
	cfg.Email.SupportEmail = "support@haritfarms.example"
	log := logrus.New()
	return NewService(cfg, log)
}

func TestAllTemplatesParse(t *testing.T) {
	s := testService()
	for _, name := range []string{
		string(TypeWelcome),
		string(TypePasswordOTP),
		string(TypeOrderConfirmation),
		string(TypeOrderCancelled),
		string(TypeOrderShipped),
		string(TypeOrderOutForDelivery),
		string(TypeOrderDelivered),
		string(TypePaymentSuccess),
		string(TypePaymentFailed),
		string(TypeBookingApproved),
		string(TypeBookingRejected),
		"review_thanks_high",
		"review_thanks_mid",
		"review_thanks_low",
	} {
		assert.Contains(t, s.templates, name)
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	s := testService()

	data := OrderEmailData{
		TemplateData:   s.baseData("Asha"),
		OrderNumber:    "ORD-20260831120000-00042",
		OrderDate:      "31 Aug 2026",
		PaymentMethod:  "Cash on Delivery",
		Items:          []OrderLine{{Name: "Desi Tomatoes", Quantity: 2, UnitPrice: "₹45.00", Total: "₹90.00"}},
		Subtotal:       "₹90.00",
		ShippingAmount: "₹50.00",
		TaxAmount:      "₹4.50",
		DiscountAmount: "₹0.00",
		TotalAmount:    "₹144.50",
	}

	body, err := s.render(string(TypeOrderConfirmation), data)
	require.NoError(t, err)
	assert.Contains(t, body, "ORD-20260831120000-00042")
	assert.Contains(t, body, "Desi Tomatoes")
	assert.Contains(t, body, "Asha")
	assert.Contains(t, body, "₹144.50")
}

func TestRenderPasswordOTP(t *testing.T) {
	s := testService()

	data := OTPEmailData{
		TemplateData:  s.baseData("Ravi"),
		Code:          "482916",
		ExpiryMinutes: 10,
	}

	body, err := s.render(string(TypePasswordOTP), data)
	require.NoError(t, err)
	assert.Contains(t, body, "482916")
}

func TestRenderUnknownTemplate(t *testing.T) {
	s := testService()

	_, err := s.render("no_such_template", nil)
	assert.Error(t, err)
}

func TestReviewThanksTemplateTiers(t *testing.T) {
	assert.Equal(t, "review_thanks_high", ReviewThanksTemplate(5))
	assert.Equal(t, "review_thanks_high", ReviewThanksTemplate(4))
	assert.Equal(t, "review_thanks_mid", ReviewThanksTemplate(3))
	assert.Equal(t, "review_thanks_low", ReviewThanksTemplate(2))
	assert.Equal(t, "review_thanks_low", ReviewThanksTemplate(1))
}

func TestBaseData(t *testing.T) {
	s := testService()

	data := s.baseData("Meera")
	assert.Equal(t, "Harit Farms", data.SiteName)
	assert.Equal(t, "https://haritfarms.example", data.SiteURL)
	assert.Equal(t, "support@haritfarms.example", data.SupportMail)
	assert.Equal(t, "Meera", data.UserName)
	assert.Equal(t, time.Now().UTC().Year(), data.Year)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹0.00", FormatAmount(0))
	assert.Equal(t, "₹0.05", FormatAmount(5))
	assert.Equal(t, "₹1.00", FormatAmount(100))
	assert.Equal(t, "₹45.00", FormatAmount(4500))
	assert.Equal(t, "₹523.55", FormatAmount(52355))
	assert.Equal(t, "-₹9.99", FormatAmount(-999))
}
