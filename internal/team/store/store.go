package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/crew/internal/team/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and let services name
// exactly the surface they touch.
type Store interface {
	Invites() Invites
	Accounts() Accounts
	Roles() Roles

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store. Nested transactions are not supported.
type Tx interface {
	Invites() Invites
	Accounts() Accounts
	Roles() Roles
}

type Invites interface {
	// CreateInvite writes a new invitation (token_hash is the SHA-256
	// fingerprint of the opaque invite token).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByID returns an invitation by id.
	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetInviteByTokenHash returns an invitation by token fingerprint.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// ListInvites returns every invitation newest-first, joined with the
	// inviter's email. Stored rows never delete; status is as stored and
	// callers derive expiry.
	ListInvites(ctx context.Context) ([]domain.InviteListing, error)

	// TransitionStatus conditionally moves an invitation out of pending.
	// The update only applies while the stored status is pending and the
	// deadline has not passed at now, so racing accept/revoke calls
	// resolve to exactly one winner. Returns false when no row changed.
	TransitionStatus(ctx context.Context, id string, to domain.InviteStatus, now time.Time) (bool, error)
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail returns an account by email (case-insensitive).
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by the app via
	// ULID). Fails with ErrAlreadyExists on a duplicate email.
	CreateAccount(ctx context.Context, a domain.Account) error
}

type Roles interface {
	// GetAccountRole returns the current role record for an account.
	// ErrNotFound means the account has no role assigned.
	GetAccountRole(ctx context.Context, accountID string) (domain.Role, error)

	// AssignRole sets or replaces the role record for an account.
	AssignRole(ctx context.Context, accountID string, role domain.Role) error
}
