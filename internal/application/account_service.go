package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftbus/service-ticketing/internal/domain"
	accountDomain "github.com/swiftbus/service-ticketing/internal/domain/account"
)

// RegisterRequest holds the data needed to create an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccountDTO is the response representation of an account.
type AccountDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountService is the application service for registration, login and
// password reset.
type AccountService struct {
	repo   accountDomain.AccountRepository
	logger *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo accountDomain.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{repo: repo, logger: logger}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AccountDTO, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, domain.NewValidationError("missing_fields", "username, email and password are required")
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if taken {
		return nil, domain.NewConflictError("account_exists", "username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc, err := accountDomain.NewAccount(req.Username, req.Email, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		zap.String("account_id", acc.ID().String()),
		zap.String("username", acc.Username()),
	)

	result := toAccountDTO(acc)
	return &result, nil
}

// Authenticate verifies credentials and returns the matching account.
// The same error comes back for a missing account and a wrong password.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*AccountDTO, error) {
	acc, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := domain.AsAppError(err); ok {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash()), []byte(password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}

	result := toAccountDTO(acc)
	return &result, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	acc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toAccountDTO(acc)
	return &result, nil
}

// ForgotPassword issues a password-reset token for the account holding the
// email. The reset link is logged rather than emailed; there is no mail
// integration. The token is returned for the caller's benefit in tests and
// must not be exposed in API responses.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (string, error) {
	acc, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := generateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	acc.SetResetToken(token)
	if err := s.repo.Update(ctx, acc); err != nil {
		return "", err
	}

	s.logger.Info("password reset link issued",
		zap.String("account_id", acc.ID().String()),
		zap.String("reset_link", "/reset-password?token="+token),
	)
	return token, nil
}

// ResetPassword consumes a reset token and replaces the password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.NewValidationError("missing_fields", "token and new password are required")
	}

	acc, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if _, ok := domain.AsAppError(err); ok {
			return domain.NewValidationError("invalid_reset_token", "invalid or expired token")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	acc.ResetPassword(string(hash))
	if err := s.repo.Update(ctx, acc); err != nil {
		return err
	}

	s.logger.Info("password reset completed",
		zap.String("account_id", acc.ID().String()),
	)
	return nil
}

// generateResetToken returns a 32-byte URL-safe random token.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func toAccountDTO(acc *accountDomain.Account) AccountDTO {
	return AccountDTO{
		ID:        acc.ID(),
		Username:  acc.Username(),
		Email:     acc.Email(),
		IsAdmin:   acc.IsAdmin(),
		CreatedAt: acc.CreatedAt(),
	}
}
