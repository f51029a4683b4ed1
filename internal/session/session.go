package session

import (
	"context"

	"github.com/google/uuid"
)

// Session associates a client with an authenticated account for the lifetime
// of its cookie. Handlers consume the resolved account id and admin flag
// only; nothing outside this package inspects how sessions are stored.
type Session struct {
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
}

// Store is the session persistence contract.
type Store interface {
	// Create stores a new session and returns its opaque token.
	Create(ctx context.Context, s Session) (string, error)

	// Get retrieves the session for a token. A missing or expired token
	// yields (nil, nil), not an error.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete invalidates a token. Deleting an unknown token is a no-op.
	Delete(ctx context.Context, token string) error
}
