package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/sirupsen/logrus"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/order"
)

// Payment errors
var (
	ErrNotOnlineOrder   = errors.New("order is not an online payment order")
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrInvalidSignature = errors.New("payment signature verification failed")
)

// Service integrates the Razorpay gateway: order creation, callback
// signature verification and webhook handling.
type Service struct {
	client *razorpay.Client
	config *config.Config
	log    *logrus.Logger
	orders *order.Service
}

// NewService creates a new payment service
func NewService(cfg *config.Config, log *logrus.Logger, orders *order.Service) *Service {
	return &Service{
		client: razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		config: cfg,
		log:    log,
		orders: orders,
	}
}

// InitiateResponse carries what the frontend checkout widget needs
type InitiateResponse struct {
	OrderNumber    string `json:"order_number"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// VerifyRequest is the callback payload posted by the frontend after the
// gateway widget completes.
type VerifyRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// Initiate creates a gateway order for an unpaid online order and stores its
// reference. Safe to call again after an abandoned widget; the existing
// gateway order is reused.
func (s *Service) Initiate(userID, orderID uint) (*InitiateResponse, error) {
	o, err := s.orders.GetUserOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != order.MethodOnline {
		return nil, ErrNotOnlineOrder
	}
	if o.IsPaid() {
		return nil, ErrAlreadyPaid
	}

	if o.GatewayOrderID == "" {
		data := map[string]interface{}{
			"amount":          o.TotalAmount,
			"currency":        s.config.Razorpay.Currency,
			"receipt":         o.OrderNumber,
			"payment_capture": 1,
		}
		gatewayOrder, err := s.client.Order.Create(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create gateway order: %w", err)
		}

		gatewayOrderID := fmt.Sprintf("%v", gatewayOrder["id"])
		if err := s.orders.SetGatewayOrderID(o.ID, gatewayOrderID); err != nil {
			return nil, err
		}
		o.GatewayOrderID = gatewayOrderID

		s.log.WithFields(logrus.Fields{
			"order_number":     o.OrderNumber,
			"gateway_order_id": gatewayOrderID,
			"amount":           o.TotalAmount,
		}).Info("Gateway order created")
	}

	return &InitiateResponse{
		OrderNumber:    o.OrderNumber,
		GatewayOrderID: o.GatewayOrderID,
		Amount:         o.TotalAmount,
		Currency:       s.config.Razorpay.Currency,
		KeyID:          s.config.Razorpay.KeyID,
	}, nil
}

// Verify checks the callback signature and marks the order paid. The
// signature is HMAC-SHA256 over "<gateway_order_id>|<gateway_payment_id>"
// keyed with the API secret, compared in constant time.
func (s *Service) Verify(userID uint, req *VerifyRequest) (*order.Order, error) {
	var o order.Order
	err := s.orders.FindByGatewayOrderID(req.GatewayOrderID, &o)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrNotFound
	}

	if !s.signatureValid(req.GatewayOrderID, req.GatewayPaymentID, req.Signature, s.config.Razorpay.KeySecret) {
		s.log.WithFields(logrus.Fields{
			"order_number":     o.OrderNumber,
			"gateway_order_id": req.GatewayOrderID,
		}).Warn("Payment signature verification failed")
		if err := s.orders.MarkPaymentFailed(o.OrderNumber); err != nil {
			s.log.WithError(err).Warn("Failed to record payment failure")
		}
		return nil, ErrInvalidSignature
	}

	return s.orders.MarkPaid(o.OrderNumber, req.GatewayPaymentID)
}

func (s *Service) signatureValid(orderID, paymentID, signature, secret string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// webhookEvent is the subset of the gateway webhook payload we act on
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook processes gateway webhooks. The signature is HMAC-SHA256
// over the raw request body keyed with the webhook secret. Events for
// unknown gateway orders are acknowledged and dropped.
func (s *Service) HandleWebhook(body []byte, signature string) error {
	h := hmac.New(sha256.New, []byte(s.config.Razorpay.WebhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	var o order.Order
	if err := s.orders.FindByGatewayOrderID(event.Payload.Payment.Entity.OrderID, &o); err != nil {
		s.log.WithFields(logrus.Fields{
			"event":            event.Event,
			"gateway_order_id": event.Payload.Payment.Entity.OrderID,
		}).Warn("Webhook for unknown gateway order")
		return nil
	}

	switch event.Event {
	case "payment.captured":
		_, err := s.orders.MarkPaid(o.OrderNumber, event.Payload.Payment.Entity.ID)
		return err
	case "payment.failed":
		return s.orders.MarkPaymentFailed(o.OrderNumber)
	default:
		s.log.WithField("event", event.Event).Debug("Ignoring webhook event")
		return nil
	}
}
