package ports

import (
	"context"
	"time"

	"github.com/campdir/bootcamp-api/internal/core/domain"
)

// UpdateAccountInput carries the mutable account fields. Empty values are
// left untouched.
type UpdateAccountInput struct {
	Name  string
	Email string
	Role  domain.Role
}

// AccountRepository defines the persistence contract for accounts.
//
// Reads never include the password hash unless the method name says so; the
// hash only leaves storage for explicit credential checks.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*domain.Account, error)
	FindByIDWithPassword(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, id string) error

	// UpdatePassword replaces the stored hash for the account.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetResetToken stores the hashed reset secret and its expiry.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	// ClearResetToken unsets the reset pair without touching the password.
	ClearResetToken(ctx context.Context, id string) error

	// ConsumeResetToken atomically matches an account whose stored reset
	// hash equals tokenHash and whose expiry is after now, then in the same
	// document update sets the new password hash and unsets the reset pair.
	// Returns domain.ErrInvalidResetToken when nothing matches.
	ConsumeResetToken(ctx context.Context, tokenHash, newPasswordHash string, now time.Time) (*domain.Account, error)
}
