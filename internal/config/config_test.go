package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("APP_ENV", "development")
	// Empty values fall through to the built-in defaults
	t.Setenv("REVIEW_AUTO_APPROVE", "")
	t.Setenv("TAX_RATE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.InDelta(t, 0.05, cfg.Pricing.TaxRate, 1e-9)

	// New reviews wait for moderation unless explicitly switched
	assert.False(t, cfg.Review.AutoApprove)
}

func TestLoadReviewAutoApproveToggle(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("REVIEW_AUTO_APPROVE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Review.AutoApprove)
}

func TestValidateRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
