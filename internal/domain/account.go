package domain

import (
	"context"
	"time"
)

// Account roles. Role is fixed at creation; no operation changes it.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Account is a login identity with a role.
// swagger:model Account
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAccount returns a new Account with the given fields. ID is set by the repository on create.
func NewAccount(email, passwordHash, role string, createdAt time.Time) *Account {
	return &Account{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
	}
}

// PasswordHasher handles one-way password hashing and verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated account.
type TokenIssuer interface {
	Issue(accountID int64, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the account identity it carries.
type TokenVerifier interface {
	Verify(token string) (accountID int64, email, role string, err error)
}

// AccountRepository defines the interface for account storage.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	// UpdatePassword replaces the stored hash; used by the admin seed.
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// AuthService defines credential verification and account registration.
type AuthService interface {
	// Authenticate verifies email+password. Unknown email and wrong password
	// fail identically with ErrInvalidCredentials. The returned token is a
	// convenience for clients; no CRUD endpoint requires it.
	Authenticate(ctx context.Context, email, password string) (*Account, string, error)
	// Register creates a student account. Name, department, and USN are
	// accepted from callers but not persisted on the account.
	Register(ctx context.Context, email, password, name, department, usn string) (*Account, error)
	// GetByID resolves the account behind a verified token.
	GetByID(ctx context.Context, id int64) (*Account, error)
	// EnsureAdmin creates the admin account if missing, or resets its
	// password if present.
	EnsureAdmin(ctx context.Context, email, password string) error
}
