package account

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swiftbus/service-ticketing/internal/domain"
)

// Account is an authenticated identity. Accounts own their bookings and are
// never deleted through any exposed operation.
type Account struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	resetToken   *string
	isAdmin      bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewAccount creates an Account from an already-hashed password. Regular
// registration never produces an admin; the flag is set out of band.
func NewAccount(username, email, passwordHash string) (*Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" {
		return nil, domain.NewValidationError("missing_username", "username is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("missing_email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("invalid_email", "email address is not valid")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("missing_password", "password is required")
	}

	now := time.Now().UTC()
	return &Account{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructAccount rebuilds an Account from persistence data (no validation).
func ReconstructAccount(
	id uuid.UUID,
	username string,
	email string,
	passwordHash string,
	resetToken *string,
	isAdmin bool,
	createdAt time.Time,
	updatedAt time.Time,
) *Account {
	return &Account{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		resetToken:   resetToken,
		isAdmin:      isAdmin,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the account's unique identifier.
func (a *Account) ID() uuid.UUID { return a.id }

// Username returns the unique username.
func (a *Account) Username() string { return a.username }

// Email returns the unique email address.
func (a *Account) Email() string { return a.email }

// PasswordHash returns the stored bcrypt hash.
func (a *Account) PasswordHash() string { return a.passwordHash }

// ResetToken returns the outstanding password-reset token, or nil.
func (a *Account) ResetToken() *string { return a.resetToken }

// IsAdmin reports whether the account has admin privileges.
func (a *Account) IsAdmin() bool { return a.isAdmin }

// CreatedAt returns the creation timestamp.
func (a *Account) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }

// SetResetToken stores a new password-reset token, replacing any previous one.
func (a *Account) SetResetToken(token string) {
	a.resetToken = &token
	a.updatedAt = time.Now().UTC()
}

// ResetPassword replaces the password hash and consumes the reset token.
func (a *Account) ResetPassword(passwordHash string) {
	a.passwordHash = passwordHash
	a.resetToken = nil
	a.updatedAt = time.Now().UTC()
}
