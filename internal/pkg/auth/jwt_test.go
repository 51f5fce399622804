package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haritfarms/storefront-backend/internal/config"
)

func testJWTManager() *JWTManager {
	cfg := &config.Config{}
	cfg.App.Name = "harit-farms"
	cfg.JWT.Secret = "test-secret-key-for-unit-tests"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour
	return NewJWTManager(cfg)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testJWTManager()

	token, err := manager.GenerateAccessToken(42, "user@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenNeverCarriesAdmin(t *testing.T) {
	manager := testJWTManager()

	token, err := manager.GenerateRefreshToken(7, "admin@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	manager := testJWTManager()

	access, err := manager.GenerateAccessToken(1, "user@example.com", false)
	require.NoError(t, err)
	refresh, err := manager.GenerateRefreshToken(1, "user@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateRefreshToken(access)
	assert.Error(t, err)

	_, err = manager.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	manager := testJWTManager()

	token, err := manager.GenerateAccessToken(1, "user@example.com", false)
	require.NoError(t, err)

	other := testJWTManager()
	other.config.JWT.Secret = "a-different-secret"

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	manager := testJWTManager()

	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = manager.ValidateToken("")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromHeader("Bearer abc123"))
	assert.Empty(t, ExtractTokenFromHeader("abc123"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("Basic dXNlcjpwYXNz"))
}
