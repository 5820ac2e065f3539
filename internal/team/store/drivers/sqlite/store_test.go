package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/crew/internal/team/domain"
	"github.com/aussiebroadwan/crew/internal/team/store"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(DSN(filepath.Join(t.TempDir(), "team.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedAccount(t *testing.T, s *Store, email string) domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     "Seed Account",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Accounts().CreateAccount(context.Background(), a))
	return a
}

func seedInvite(t *testing.T, s *Store, invitedBy string, expiresAt time.Time) domain.Invite {
	t.Helper()

	now := time.Now().UTC()
	inv := domain.Invite{
		ID:        idx.New().String(),
		Email:     "invitee@example.com",
		Role:      domain.RoleManager,
		TokenHash: "hash-" + idx.New().String(),
		Status:    domain.InviteStatusPending,
		InvitedBy: invitedBy,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		UpdatedAt: now,
	}
	require.NoError(t, s.Invites().CreateInvite(context.Background(), inv))
	return inv
}

func TestAccountsUniqueEmail(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	seedAccount(t, s, "dup@example.com")

	now := time.Now().UTC()
	err := s.Accounts().CreateAccount(ctx, domain.Account{
		ID:           idx.New().String(),
		Email:        "DUP@example.com", // NOCASE collation
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccountsLookupByEmailIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	a := seedAccount(t, s, "casey@example.com")

	got, err := s.Accounts().GetAccountByEmail(ctx, "Casey@Example.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	_, err = s.Accounts().GetAccountByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRolesAssignAndReplace(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	a := seedAccount(t, s, "role@example.com")

	_, err := s.Roles().GetAccountRole(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Roles().AssignRole(ctx, a.ID, domain.RoleEmployee))
	role, err := s.Roles().GetAccountRole(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleEmployee, role)

	// Re-assigning replaces the record rather than erroring.
	require.NoError(t, s.Roles().AssignRole(ctx, a.ID, domain.RoleAdmin))
	role, err = s.Roles().GetAccountRole(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)
}

func TestInviteRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	admin := seedAccount(t, s, "admin@example.com")
	inv := seedInvite(t, s, admin.ID, time.Now().UTC().Add(time.Hour))

	byID, err := s.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv.ID, byID.ID)
	require.Equal(t, domain.InviteStatusPending, byID.Status)

	byHash, err := s.Invites().GetInviteByTokenHash(ctx, inv.TokenHash)
	require.NoError(t, err)
	require.Equal(t, inv.ID, byHash.ID)

	_, err = s.Invites().GetInviteByTokenHash(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListInvitesNewestFirstWithInviter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	admin := seedAccount(t, s, "admin@example.com")

	older := seedInvite(t, s, admin.ID, time.Now().UTC().Add(time.Hour))
	// Force distinct created_at ordering.
	newer := domain.Invite{
		ID:        idx.New().String(),
		Email:     "later@example.com",
		Role:      domain.RoleEmployee,
		TokenHash: "hash-" + idx.New().String(),
		Status:    domain.InviteStatusPending,
		InvitedBy: admin.ID,
		CreatedAt: older.CreatedAt.Add(time.Minute),
		ExpiresAt: older.CreatedAt.Add(time.Hour),
		UpdatedAt: older.CreatedAt.Add(time.Minute),
	}
	require.NoError(t, s.Invites().CreateInvite(ctx, newer))

	listings, err := s.Invites().ListInvites(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	require.Equal(t, newer.ID, listings[0].ID)
	require.Equal(t, older.ID, listings[1].ID)
	require.Equal(t, admin.Email, listings[0].InvitedByEmail)
}

func TestTransitionStatusIsConditional(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	admin := seedAccount(t, s, "admin@example.com")
	now := time.Now().UTC()

	t.Run("pending transitions exactly once", func(t *testing.T) {
		inv := seedInvite(t, s, admin.ID, now.Add(time.Hour))

		ok, err := s.Invites().TransitionStatus(ctx, inv.ID, domain.InviteStatusRevoked, now)
		require.NoError(t, err)
		require.True(t, ok)

		// Second transition loses: the row left pending.
		ok, err = s.Invites().TransitionStatus(ctx, inv.ID, domain.InviteStatusAccepted, now)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusRevoked, got.Status)
	})

	t.Run("expired rows never transition", func(t *testing.T) {
		inv := seedInvite(t, s, admin.ID, now.Add(-time.Minute))

		ok, err := s.Invites().TransitionStatus(ctx, inv.ID, domain.InviteStatusAccepted, now)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusPending, got.Status)
		require.Equal(t, domain.InviteStatusExpired, got.EffectiveStatus(now))
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	admin := seedAccount(t, s, "admin@example.com")
	inv := seedInvite(t, s, admin.ID, time.Now().UTC().Add(time.Hour))

	sentinel := context.Canceled
	err := s.WithTx(ctx, func(tx store.Tx) error {
		ok, err := tx.Invites().TransitionStatus(ctx, inv.ID, domain.InviteStatusAccepted, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	got, err := s.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InviteStatusPending, got.Status)
}
