package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field length limits for users.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	EmailMaxLen    = 100
	PasswordMinLen = 6
	PasswordMaxLen = 72 // bcrypt input limit
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidUsername     = errors.New("username must be between 3 and 50 characters")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmailTooLong        = errors.New("email cannot exceed 100 characters")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered account that owns tasks.
// The core trusts the identity as resolved by the auth boundary; only the
// active flag gates whether the account may act.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	IsActive       bool      `json:"is_active"`
}

// NewUser creates a new User with the given username, email, and password.
// It generates a new UUID for the user ID and sets the creation timestamp.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(username, email, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		Password:  password, // Plaintext password - must be hashed before storage
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if len(u.Username) < UsernameMinLen || len(u.Username) > UsernameMaxLen {
		return ErrInvalidUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if len(u.Email) > EmailMaxLen {
		return ErrEmailTooLong
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	// During registration we validate the provided plaintext password.
	// Existing users loaded from the store carry only the hash.
	if u.Password != "" {
		if len(u.Password) < PasswordMinLen {
			return ErrPasswordTooShort
		}
		if len(u.Password) > PasswordMaxLen {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if len(domain) < 3 {
		return false
	}

	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
