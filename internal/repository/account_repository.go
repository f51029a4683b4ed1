package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftbus/service-ticketing/internal/domain"
	accountDomain "github.com/swiftbus/service-ticketing/internal/domain/account"
)

// AccountModel is the GORM model for the accounts table.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null;size:50"`
	Email        string    `gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string    `gorm:"not null;size:100"`
	ResetToken   *string   `gorm:"index;size:64"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AccountModel) TableName() string {
	return "accounts"
}

// GormAccountRepository is the GORM-based implementation of AccountRepository.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository.
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID retrieves an account by its unique identifier.
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accountDomain.Account, error) {
	var model AccountModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("account", id.String())
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	return toDomainAccount(&model), nil
}

// FindByEmail retrieves an account by its email address.
func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*accountDomain.Account, error) {
	var model AccountModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("account", email)
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return toDomainAccount(&model), nil
}

// FindByResetToken retrieves the account holding the given reset token.
func (r *GormAccountRepository) FindByResetToken(ctx context.Context, token string) (*accountDomain.Account, error) {
	var model AccountModel
	if err := r.db.WithContext(ctx).Where("reset_token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("account", "reset token")
		}
		return nil, fmt.Errorf("failed to find account by reset token: %w", err)
	}
	return toDomainAccount(&model), nil
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
func (r *GormAccountRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AccountModel{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return count > 0, nil
}

// Save persists a new account.
func (r *GormAccountRepository) Save(ctx context.Context, acc *accountDomain.Account) error {
	model := toAccountModel(acc)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("account_exists", "username or email already exists")
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// Update persists changes to an existing account.
func (r *GormAccountRepository) Update(ctx context.Context, acc *accountDomain.Account) error {
	model := toAccountModel(acc)
	result := r.db.WithContext(ctx).
		Model(&AccountModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"password_hash": model.PasswordHash,
			"reset_token":   model.ResetToken,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("account", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toAccountModel(acc *accountDomain.Account) *AccountModel {
	return &AccountModel{
		ID:           acc.ID(),
		Username:     acc.Username(),
		Email:        acc.Email(),
		PasswordHash: acc.PasswordHash(),
		ResetToken:   acc.ResetToken(),
		IsAdmin:      acc.IsAdmin(),
		CreatedAt:    acc.CreatedAt(),
		UpdatedAt:    acc.UpdatedAt(),
	}
}

func toDomainAccount(m *AccountModel) *accountDomain.Account {
	return accountDomain.ReconstructAccount(
		m.ID,
		m.Username,
		m.Email,
		m.PasswordHash,
		m.ResetToken,
		m.IsAdmin,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
