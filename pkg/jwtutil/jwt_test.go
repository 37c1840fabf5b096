package jwtutil

import (
	"testing"
	"time"

	"storefront-api/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestKeys(t *testing.T, access, refresh time.Duration) {
	t.Helper()
	Initialize(&config.JWTConfig{
		SigningKey:        "test-signing-key",
		AccessExpiration:  access,
		RefreshExpiration: refresh,
	})
}

func TestGeneratePairRoundTrip(t *testing.T) {
	initTestKeys(t, time.Minute, time.Hour)

	pair, err := GeneratePair(42, "john", "john@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := ValidateToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "john", claims.Username)
	assert.Equal(t, "john@example.com", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	refreshClaims, err := ValidateRefreshToken(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refreshClaims.UserID)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestTokenTypeEnforcement(t *testing.T) {
	initTestKeys(t, time.Minute, time.Hour)

	pair, err := GeneratePair(1, "jane", "jane@example.com", false)
	require.NoError(t, err)

	_, err = ValidateToken(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = ValidateRefreshToken(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	initTestKeys(t, -time.Minute, -time.Minute)

	pair, err := GeneratePair(1, "jane", "jane@example.com", false)
	require.NoError(t, err)

	_, err = ValidateToken(pair.Access)
	assert.Error(t, err)

	_, err = ValidateRefreshToken(pair.Refresh)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	initTestKeys(t, time.Minute, time.Hour)

	pair, err := GeneratePair(1, "jane", "jane@example.com", false)
	require.NoError(t, err)

	_, err = ValidateToken(pair.Access + "x")
	assert.Error(t, err)
}

func TestGenerateAccessFromRefreshClaims(t *testing.T) {
	initTestKeys(t, time.Minute, time.Hour)

	pair, err := GeneratePair(7, "sam", "sam@example.com", false)
	require.NoError(t, err)

	refreshClaims, err := ValidateRefreshToken(pair.Refresh)
	require.NoError(t, err)

	access, err := GenerateAccess(refreshClaims)
	require.NoError(t, err)

	claims, err := ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}
