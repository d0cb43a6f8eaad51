package store

import (
	"context"
	"errors"

	"github.com/lberndt/gatehouse/internal/register/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy and testable; all
// cross-goroutine coordination happens through the database, never through
// shared in-process state.
type Store interface {
	Tokens() Tokens
	Admins() Admins
	Secrets() Secrets

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store.
type Tx interface {
	Tokens() Tokens
	Admins() Admins
	Secrets() Secrets
}

type Tokens interface {
	// CreateToken inserts a freshly minted token (used=false). Returns
	// ErrAlreadyExists on a value collision; values are never recycled.
	CreateToken(ctx context.Context, value string, ipAddress *string) error

	// TokenExists reports plain presence of a token value.
	TokenExists(ctx context.Context, value string) (bool, error)

	// IsTokenUsed reports whether a token has been spent. A value that was
	// never minted (or was deleted) reports used=true: absence is treated
	// as exhaustion so callers can never proceed on a typo'd token.
	IsTokenUsed(ctx context.Context, value string) (bool, error)

	// MarkTokenUsed atomically flips used=false to used=true, recording
	// usedAt and usedBy. Returns true iff this call performed the flip; a
	// concurrent or repeated call observes false and leaves the original
	// usedAt/usedBy untouched.
	MarkTokenUsed(ctx context.Context, value, usedBy string) (bool, error)

	// ListTokens returns tokens matching the filter, newest first.
	ListTokens(ctx context.Context, filter domain.TokenFilter) ([]domain.InviteToken, error)

	// DeleteToken removes a token row by id. Returns true iff a row was removed.
	DeleteToken(ctx context.Context, id int64) (bool, error)

	// TokenStats counts total/used/unused tokens.
	TokenStats(ctx context.Context) (domain.TokenStats, error)
}

type Admins interface {
	// CreateAdmin inserts a new admin with a pre-hashed password. Returns
	// ErrAlreadyExists when the username is taken.
	CreateAdmin(ctx context.Context, username, passwordHash string) error

	// GetAdminByUsername returns the admin record, or ErrNotFound.
	GetAdminByUsername(ctx context.Context, username string) (domain.AdminUser, error)

	// UpdateAdminPassword replaces the password hash. Returns true iff a
	// row was updated.
	UpdateAdminPassword(ctx context.Context, username, passwordHash string) (bool, error)

	// UpdateLastLogin records a successful authentication. Best effort: a
	// missing user is not an error.
	UpdateLastLogin(ctx context.Context, username string) error

	// ListAdmins returns all admins ordered by username.
	ListAdmins(ctx context.Context) ([]domain.AdminUser, error)

	// DeleteAdmin removes an admin. Returns true iff a row was removed.
	DeleteAdmin(ctx context.Context, username string) (bool, error)
}

type Secrets interface {
	// GetSecret returns the value for key, or ErrNotFound.
	GetSecret(ctx context.Context, key string) (string, error)

	// SetSecret inserts or replaces the value for key.
	SetSecret(ctx context.Context, key, value string) error

	// ClaimSecret inserts the value for key only if no value exists yet.
	// When two writers race, the first insert wins and the second is a
	// silent no-op; callers must re-read to learn the persisted value.
	ClaimSecret(ctx context.Context, key, value string) error
}
