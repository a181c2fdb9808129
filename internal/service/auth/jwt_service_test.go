package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwell/taskwell-api/internal/config"
)

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "too-short",
			TokenLifetimeMinutes: 60,
		})
		assert.Error(t, err)
	})

	t.Run("accepts 32 byte secret", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "test-secret-that-is-long-enough!",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	svc := NewTestJWTService(secret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("generates valid token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("tokens carry unique IDs", func(t *testing.T) {
		t.Parallel()
		first, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		second, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		firstClaims, err := svc.ValidateToken(context.Background(), first)
		require.NoError(t, err)
		secondClaims, err := svc.ValidateToken(context.Background(), second)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	wrongSecret := "wrong-secret-that-is-long-enough-too!"
	userID := uuid.New()

	t.Run("rejects expired token", func(t *testing.T) {
		t.Parallel()
		issuer := NewTestJWTService(secret, tokenLifetime, func() time.Time { return fixedTime })
		token, err := issuer.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		// Validate well past expiry plus clock skew.
		later := NewTestJWTService(secret, tokenLifetime, func() time.Time {
			return fixedTime.Add(tokenLifetime + 10*time.Minute)
		})
		_, err = later.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("tolerates expiry within clock skew", func(t *testing.T) {
		t.Parallel()
		issuer := NewTestJWTService(secret, tokenLifetime, func() time.Time { return fixedTime })
		token, err := issuer.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		nearExpiry := NewTestJWTService(secret, tokenLifetime, func() time.Time {
			return fixedTime.Add(tokenLifetime + time.Minute)
		})
		_, err = nearExpiry.ValidateToken(context.Background(), token)
		assert.NoError(t, err)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		t.Parallel()
		issuer := NewTestJWTService(wrongSecret, tokenLifetime, func() time.Time { return fixedTime })
		token, err := issuer.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		verifier := NewTestJWTService(secret, tokenLifetime, func() time.Time { return fixedTime })
		_, err = verifier.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		t.Parallel()
		verifier := NewTestJWTService(secret, tokenLifetime, func() time.Time { return fixedTime })
		_, err := verifier.ValidateToken(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4) // minimum cost keeps the test fast

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, hasher.Compare(hash, "secret123"))
	assert.Error(t, hasher.Compare(hash, "wrong-password"))
}
