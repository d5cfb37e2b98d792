package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelstats/api/models"
)

func TestIsValidInterval(t *testing.T) {
	assert.True(t, IsValidInterval("Day"))
	assert.False(t, IsValidInterval("day"))
	assert.False(t, IsValidInterval("Second; DROP TABLE"))
}

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)

	start, end, err := ParseTimeRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, now, end)
	assert.Equal(t, now.Add(-DefaultWindow), start)

	start, end, err = ParseTimeRange("2025-03-01T00:00:00Z", "2025-03-02T00:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), end)

	_, _, err = ParseTimeRange("yesterday", "", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'start'")

	_, _, err = ParseTimeRange("", "tomorrow", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'end'")

	_, _, err = ParseTimeRange("2025-03-02T00:00:00Z", "2025-03-01T00:00:00Z", now)
	assert.Error(t, err)
}

func TestParseNamedTimeRange(t *testing.T) {
	now := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)

	_, _, err := ParseNamedTimeRange("from", "last week", "to", "", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'from'")
	assert.NotContains(t, err.Error(), "'start'")

	_, _, err = ParseNamedTimeRange("from", "", "to", "soon", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'to'")

	_, _, err = ParseNamedTimeRange("from", "2025-03-02T00:00:00Z", "to", "2025-03-01T00:00:00Z", now)
	require.Error(t, err)
	assert.Equal(t, "'from' must not be after 'to'", err.Error())
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateJWT(&models.Operator{ID: 12, Email: "curator@museum.org"})
	require.NoError(t, err)

	claims, err := issuer.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 12, claims.OperatorID)
	assert.Equal(t, "curator@museum.org", claims.Email)
	assert.Equal(t, "12", claims.Subject)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	other, err := NewTokenIssuer("other", time.Hour).GenerateJWT(&models.Operator{ID: 1})
	require.NoError(t, err)
	_, err = issuer.ValidateJWT(other)
	assert.Error(t, err)

	expired, err := NewTokenIssuer("secret", -time.Minute).GenerateJWT(&models.Operator{ID: 1})
	require.NoError(t, err)
	_, err = issuer.ValidateJWT(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = issuer.ValidateJWT("not-a-token")
	assert.Error(t, err)
}
