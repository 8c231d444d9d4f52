package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

const minPasswordLen = 6

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	accountRepo domain.AccountRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService with the given repository and auth ports.
func NewAuthService(accountRepo domain.AccountRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		accountRepo: accountRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
}

// Authenticate verifies the credentials. An unknown email and a wrong
// password both return ErrInvalidCredentials with no observable difference.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*domain.Account, string, error) {
	account, err := s.accountRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get account: %w", err)
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.Issue(account.ID, account.Email, account.Role, s.tokenExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return account, token, nil
}

// Register creates a student account. The role is forced to student no matter
// what the caller supplied; name, department, and usn are accepted for
// interface compatibility but not persisted on the account.
func (s *authService) Register(ctx context.Context, email, password, _, _, _ string) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := domain.NewAccount(email, hash, domain.RoleStudent, time.Now())
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

func (s *authService) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// EnsureAdmin seeds the admin account at startup: create it if missing, or
// reset its password so a changed ADMIN_PASSWORD takes effect on restart.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.accountRepo.UpdatePassword(ctx, email, hash); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("update admin password: %w", err)
	}

	account := domain.NewAccount(email, hash, domain.RoleAdmin, time.Now())
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	return nil
}
