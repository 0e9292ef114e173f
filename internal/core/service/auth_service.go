package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/campdir/bootcamp-api/internal/core/domain"
	"github.com/campdir/bootcamp-api/internal/core/ports"
)

const resetTokenBytes = 20

// AuthConfig carries every secret and duration the auth flow needs. It is
// handed over at construction; the service never reads the environment.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	ResetTTL  time.Duration
}

// AuthService implements registration, login, session tokens, and the
// password reset and change flows.
type AuthService struct {
	repo   ports.AccountRepository
	mailer ports.Mailer
	cfg    AuthConfig
	logger zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, mailer ports.Mailer, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = 10 * time.Minute
	}
	return &AuthService{repo: repo, mailer: mailer, cfg: cfg, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !domain.ValidEmail(email) {
		return nil, "", fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < domain.MinPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.SelfAssignable() {
		return nil, "", fmt.Errorf("%w: role must be user or publisher", domain.ErrValidation)
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
		return nil, "", err
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(created)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account registered")
	return created, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	account, err := s.repo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		// Unknown email and wrong password are indistinguishable to the caller.
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !account.MatchPassword(password) {
		s.logger.Warn().Str("account_id", account.ID).Msg("login rejected")
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(account)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("login succeeded")
	return account, token, nil
}

func (s *AuthService) Account(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) UpdateDetails(ctx context.Context, id, name, email string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if email != "" && !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	return s.repo.Update(ctx, id, ports.UpdateAccountInput{Name: strings.TrimSpace(name), Email: email})
}

func (s *AuthService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (string, error) {
	if len(newPassword) < domain.MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}

	account, err := s.repo.FindByIDWithPassword(ctx, id)
	if err != nil {
		return "", err
	}
	if !account.MatchPassword(currentPassword) {
		return "", domain.ErrInvalidCredentials
	}

	if err := account.SetPassword(newPassword); err != nil {
		return "", err
	}
	if err := s.repo.UpdatePassword(ctx, account.ID, account.PasswordHash); err != nil {
		return "", err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("password changed")
	return s.IssueToken(account)
}

// ForgotPassword starts the reset flow. Only the sha256 of the secret is
// persisted; the plaintext travels to the account owner through the mailer.
// Unknown emails report success so the endpoint cannot be used to probe for
// registered addresses.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !domain.ValidEmail(email) {
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.Warn().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, tokenHash, err := newResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(s.cfg.ResetTTL)
	if err := s.repo.SetResetToken(ctx, account.ID, tokenHash, expiresAt); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, account.Email, account.Name, token); err != nil {
		// Undo the pending reset so an undelivered token cannot linger.
		if clearErr := s.repo.ClearResetToken(ctx, account.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("account_id", account.ID).Msg("failed to clear reset token after send failure")
		}
		return fmt.Errorf("send reset mail: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Time("expires_at", expiresAt).Msg("password reset token issued")
	return nil
}

// ResetPassword consumes a reset token. Matching the token, replacing the
// password hash, and clearing the reset pair happen in one conditional
// storage update, so a token can never be spent without the password moving
// with it.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (*domain.Account, string, error) {
	if len(newPassword) < domain.MinPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}

	var staged domain.Account
	if err := staged.SetPassword(newPassword); err != nil {
		return nil, "", err
	}

	account, err := s.repo.ConsumeResetToken(ctx, hashResetToken(token), staged.PasswordHash, time.Now().UTC())
	if err != nil {
		return nil, "", err
	}

	sessionToken, err := s.IssueToken(account)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("password reset completed")
	return account, sessionToken, nil
}

// IssueToken signs a session token binding the account id and role. Expiry is
// enforced by the verifier; storage knows nothing about sessions.
func (s *AuthService) IssueToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"id":   account.ID,
		"role": string(account.Role),
		"exp":  time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newResetToken returns the plaintext secret and the sha256 hex digest that
// is the only form ever persisted.
func newResetToken() (token, tokenHash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, hashResetToken(token), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
