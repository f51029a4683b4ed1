package account

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the persistence contract for accounts.
type AccountRepository interface {
	// FindByID retrieves an account by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByEmail retrieves an account by its email address.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByResetToken retrieves the account holding the given reset token.
	FindByResetToken(ctx context.Context, token string) (*Account, error)

	// ExistsByUsernameOrEmail reports whether either value is already taken.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Save persists a new account.
	Save(ctx context.Context, account *Account) error

	// Update persists changes to an existing account.
	Update(ctx context.Context, account *Account) error
}
