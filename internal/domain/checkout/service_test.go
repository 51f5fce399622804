package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/coupon"
)

func pricingService() *Service {
	cfg := &config.Config{}
	cfg.Pricing.TaxRate = 0.05
	cfg.Pricing.FlatShippingFee = 5000
	cfg.Pricing.FreeShippingThreshold = 50000
	return &Service{config: cfg}
}

func TestPriceBelowFreeShippingThreshold(t *testing.T) {
	s := pricingService()

	q := s.Price(45100, nil)

	assert.Equal(t, int64(45100), q.SubTotal)
	assert.Equal(t, int64(0), q.Discount)
	assert.Equal(t, int64(5000), q.Shipping)
	assert.Equal(t, int64(2255), q.Tax)
	assert.Equal(t, int64(52355), q.Total)
}

func TestPriceAtFreeShippingThreshold(t *testing.T) {
	s := pricingService()

	q := s.Price(50000, nil)

	assert.Equal(t, int64(0), q.Shipping)
	assert.Equal(t, int64(2500), q.Tax)
	assert.Equal(t, int64(52500), q.Total)
}

func TestPriceTaxRounding(t *testing.T) {
	s := pricingService()

	// 0.05 * 49 = 2.45 rounds to 2
	q := s.Price(49, nil)
	assert.Equal(t, int64(2), q.Tax)

	// 0.05 * 51 = 2.55 rounds to 3
	q = s.Price(51, nil)
	assert.Equal(t, int64(3), q.Tax)
}

func TestPriceWithPercentCoupon(t *testing.T) {
	s := pricingService()
	c := &coupon.Coupon{ID: 1, Code: "HARVEST10", Type: coupon.TypePercentage, Value: 10}

	q := s.Price(100000, c)

	assert.Equal(t, int64(10000), q.Discount)
	assert.Equal(t, "HARVEST10", q.CouponCode)
	assert.Equal(t, int64(0), q.Shipping)
	assert.Equal(t, int64(5000), q.Tax)
	assert.Equal(t, q.SubTotal-q.Discount+q.Shipping+q.Tax, q.Total)
}

func TestPriceTotalIdentityHolds(t *testing.T) {
	s := pricingService()
	c := &coupon.Coupon{ID: 2, Code: "FLAT50", Type: coupon.TypeFixed, Value: 5000}

	for _, subtotal := range []int64{1, 49999, 50000, 123456, 999999} {
		q := s.Price(subtotal, c)
		assert.Equal(t, q.SubTotal-q.Discount+q.Shipping+q.Tax, q.Total,
			"subtotal %d", subtotal)
		assert.GreaterOrEqual(t, q.Discount, int64(0))
		assert.LessOrEqual(t, q.Discount, q.SubTotal)
	}
}

func TestPriceZeroSubtotalHasNoShipping(t *testing.T) {
	s := pricingService()

	q := s.Price(0, nil)

	assert.Equal(t, int64(0), q.Shipping)
	assert.Equal(t, int64(0), q.Total)
}
