package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haritfarms/storefront-backend/internal/config"
)

func testPasswordManager() *PasswordManager {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = 4 // minimum cost keeps the tests fast
	return NewPasswordManager(cfg)
}

func TestHashAndVerifyPassword(t *testing.T) {
	manager := testPasswordManager()

	hash, err := manager.HashPassword("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, manager.VerifyPassword("secret123", hash))
	assert.Error(t, manager.VerifyPassword("wrong-pass1", hash))
}

func TestValidatePassword(t *testing.T) {
	manager := testPasswordManager()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "secret123", false},
		{"too short", "abc1", true},
		{"no number", "onlyletters", true},
		{"no letter", "12345678", true},
		{"mixed unicode", "pässwort1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashPasswordRejectsWeakPassword(t *testing.T) {
	manager := testPasswordManager()

	_, err := manager.HashPassword("short")
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP(6)
	require.NoError(t, err)
	require.Len(t, otp, 6)
	for _, ch := range otp {
		assert.True(t, ch >= '0' && ch <= '9')
	}

	_, err = GenerateOTP(0)
	assert.Error(t, err)
}

func TestGenerateOTPDiffers(t *testing.T) {
	// Collisions are possible but vanishingly unlikely across ten draws.
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		otp, err := GenerateOTP(8)
		require.NoError(t, err)
		seen[otp] = true
	}
	assert.Greater(t, len(seen), 1)
}
