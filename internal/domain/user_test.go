package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice", "alice@example.com", "secret123")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("trims username and email", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("  alice  ", " alice@example.com ", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"username too short", "al", "alice@example.com", "secret123", ErrInvalidUsername},
		{"username too long", strings.Repeat("a", UsernameMaxLen+1), "alice@example.com", "secret123", ErrInvalidUsername},
		{"empty email", "alice", "", "secret123", ErrEmptyEmail},
		{"email too long", "alice", strings.Repeat("a", EmailMaxLen) + "@e.co", "secret123", ErrEmailTooLong},
		{"malformed email", "alice", "not-an-email", "secret123", ErrInvalidEmail},
		{"password too short", "alice", "alice@example.com", "12345", ErrPasswordTooShort},
		{"password too long", "alice", "alice@example.com", strings.Repeat("x", PasswordMaxLen+1), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.username, tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the store has only the hash; that is valid.
	user := User{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		IsActive:       true,
	}
	require.NoError(t, user.Validate())

	// Neither plaintext nor hash is an invalid state.
	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
