package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campdir/bootcamp-api/internal/core/domain"
	"github.com/campdir/bootcamp-api/internal/core/ports"
)

// AccountAdminService implements the admin-only account management surface.
// Unlike registration, it may assign any role, including admin.
type AccountAdminService struct {
	repo   ports.AccountRepository
	logger zerolog.Logger
}

func NewAccountAdminService(repo ports.AccountRepository, logger zerolog.Logger) *AccountAdminService {
	return &AccountAdminService{repo: repo, logger: logger}
}

func (s *AccountAdminService) List(ctx context.Context) ([]domain.Account, error) {
	return s.repo.List(ctx)
}

func (s *AccountAdminService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountAdminService) Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := account.SetPassword(password); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account created by admin")
	return created, nil
}

func (s *AccountAdminService) Update(ctx context.Context, id string, input ports.UpdateAccountInput) (*domain.Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	if input.Email != "" && !domain.ValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if input.Role != "" && !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", id).Msg("account updated by admin")
	return updated, nil
}

func (s *AccountAdminService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", id).Msg("account deleted by admin")
	return nil
}
