package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Desi Tomatoes", "desi-tomatoes"},
		{"punctuation collapsed", "A2 Cow Ghee (500ml)", "a2-cow-ghee-500ml"},
		{"leading and trailing junk", "  --Honey & Preserves--  ", "honey-preserves"},
		{"repeated separators", "Grains   &   Pulses", "grains-pulses"},
		{"already clean", "spinach-bunch", "spinach-bunch"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestProductIsInStock(t *testing.T) {
	assert.True(t, (&Product{Quantity: 3}).IsInStock())
	assert.False(t, (&Product{Quantity: 0}).IsInStock())
}

func TestProductDiscountPercentage(t *testing.T) {
	assert.Equal(t, 0, (&Product{Price: 4500}).DiscountPercentage())
	assert.Equal(t, 0, (&Product{Price: 4500, ComparePrice: 4500}).DiscountPercentage())
	// 85000 from 95000 is a bit over 10 percent off
	assert.Equal(t, 10, (&Product{Price: 85000, ComparePrice: 95000}).DiscountPercentage())
	assert.Equal(t, 50, (&Product{Price: 5000, ComparePrice: 10000}).DiscountPercentage())
}
