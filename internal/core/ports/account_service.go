package ports

import (
	"context"

	"github.com/campdir/bootcamp-api/internal/core/domain"
)

// AccountAdminService is the administrative surface over accounts. Role
// assignment only happens here; the public auth surface never mutates roles.
type AccountAdminService interface {
	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error)
	Update(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
}
