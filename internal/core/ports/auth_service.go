package ports

import (
	"context"

	"github.com/campdir/bootcamp-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, string, error)
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)
	Account(ctx context.Context, id string) (*domain.Account, error)
	UpdateDetails(ctx context.Context, id, name, email string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*domain.Account, string, error)
}
