package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiscountForPercent(t *testing.T) {
	c := &Coupon{Type: TypePercentage, Value: 10}

	assert.Equal(t, int64(5000), c.DiscountFor(50000))
	assert.Equal(t, int64(0), c.DiscountFor(0))
}

func TestDiscountForPercentCappedByMaxDiscount(t *testing.T) {
	c := &Coupon{Type: TypePercentage, Value: 50, MaxDiscount: 10000}

	assert.Equal(t, int64(10000), c.DiscountFor(100000))
	assert.Equal(t, int64(5000), c.DiscountFor(10000))
}

func TestDiscountForFlat(t *testing.T) {
	c := &Coupon{Type: TypeFixed, Value: 5000}

	assert.Equal(t, int64(5000), c.DiscountFor(20000))
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	c := &Coupon{Type: TypeFixed, Value: 5000}

	assert.Equal(t, int64(3000), c.DiscountFor(3000))
}

func TestIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	assert.True(t, (&Coupon{ExpiresAt: &past}).IsExpired())
	assert.False(t, (&Coupon{ExpiresAt: &future}).IsExpired())
	assert.False(t, (&Coupon{}).IsExpired())
}

func TestIsExhausted(t *testing.T) {
	assert.True(t, (&Coupon{UsageLimit: 5, UsedCount: 5}).IsExhausted())
	assert.False(t, (&Coupon{UsageLimit: 5, UsedCount: 4}).IsExhausted())
	assert.False(t, (&Coupon{UsageLimit: 0, UsedCount: 100}).IsExhausted())
}
