package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haritfarms/storefront-backend/internal/config"
)

func sign(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func TestSignatureValid(t *testing.T) {
	s := &Service{config: &config.Config{}}
	secret := "test_key_secret"

	good := sign(secret, "order_abc|pay_xyz")
	assert.True(t, s.signatureValid("order_abc", "pay_xyz", good, secret))
}

func TestSignatureValidRejectsTampering(t *testing.T) {
	s := &Service{config: &config.Config{}}
	secret := "test_key_secret"
	good := sign(secret, "order_abc|pay_xyz")

	assert.False(t, s.signatureValid("order_abc", "pay_other", good, secret))
	assert.False(t, s.signatureValid("order_other", "pay_xyz", good, secret))
	assert.False(t, s.signatureValid("order_abc", "pay_xyz", good, "wrong_secret"))
	assert.False(t, s.signatureValid("order_abc", "pay_xyz", "not-hex-or-valid", secret))
	assert.False(t, s.signatureValid("order_abc", "pay_xyz", "", secret))
}

func TestWebhookSignatureRejected(t *testing.T) {
	cfg := &config.Config{}
	cfg.Razorpay.WebhookSecret = "whsec"
	s := &Service{config: cfg}

	body := []byte(`{"event":"payment.captured"}`)
	err := s.HandleWebhook(body, sign("wrong", string(body)))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
