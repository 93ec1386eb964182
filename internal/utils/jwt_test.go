package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseIdentityToken(t *testing.T) {
	token, err := SignIdentityToken("u-1", "Ana", "ana@example.com", time.Hour, "secret")
	require.NoError(t, err)

	claims, err := ParseIdentityToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "ana@example.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSignIdentityToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		ttl     time.Duration
		signKey string
	}{
		{name: "empty user", ttl: time.Hour, signKey: "k"},
		{name: "zero ttl", userID: "u", signKey: "k"},
		{name: "empty key", userID: "u", ttl: time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SignIdentityToken(tt.userID, "", "", tt.ttl, tt.signKey)
			assert.Error(t, err)
		})
	}
}

func TestParseIdentityToken_Malformed(t *testing.T) {
	_, err := ParseIdentityToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidIdentityToken)
}

func TestParseIdentityToken_ExpiredStillDecodes(t *testing.T) {
	token, err := SignIdentityToken("u-2", "", "", time.Nanosecond, "secret")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	claims, err := ParseIdentityToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-2", claims.Subject)
}

func TestIdentityFromTokens(t *testing.T) {
	token, err := SignIdentityToken("u-3", "Bo", "bo@example.com", time.Minute, "secret")
	require.NoError(t, err)

	id, err := IdentityFromTokens(token, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "u-3", id.UserID)
	assert.Equal(t, "Bo", id.Name)
	assert.Equal(t, token, id.IDToken)
	assert.Equal(t, "refresh", id.RefreshToken)
	assert.False(t, id.Expired(time.Now()))
	assert.True(t, id.Expired(time.Now().Add(2*time.Minute)))
}

func TestVerifyIdentityToken(t *testing.T) {
	token, err := SignIdentityToken("u-1", "Ana", "ana@example.com", time.Hour, "secret")
	require.NoError(t, err)

	t.Run("valid signature", func(t *testing.T) {
		claims, err := VerifyIdentityToken(token, "secret")
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.Subject)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := VerifyIdentityToken(token, "other")
		assert.ErrorIs(t, err, ErrInvalidIdentityToken)
	})

	t.Run("empty key skips verification", func(t *testing.T) {
		claims, err := VerifyIdentityToken(token, "")
		require.NoError(t, err)
		assert.Equal(t, "Ana", claims.Name)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := VerifyIdentityToken("not-a-token", "secret")
		assert.ErrorIs(t, err, ErrInvalidIdentityToken)
	})
}
