package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/crew/internal/team/domain"
	"github.com/aussiebroadwan/crew/internal/team/store"
	"github.com/aussiebroadwan/crew/internal/team/store/drivers/sqlite"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "team.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedAccountWithRole(t *testing.T, st store.Store, email string, role domain.Role) domain.Account {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC()
	a := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     "Test Person",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Accounts().CreateAccount(ctx, a))
	if role != "" {
		require.NoError(t, st.Roles().AssignRole(ctx, a.ID, role))
	}
	return a
}

func TestRequireAllowsSufficientRole(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := &AuthorizeService{Store: st}
	ctx := context.Background()

	admin := seedAccountWithRole(t, st, "admin@example.com", domain.RoleAdmin)
	owner := seedAccountWithRole(t, st, "owner@example.com", domain.RoleOwner)

	require.NoError(t, svc.Require(ctx, admin.ID, domain.RoleAdmin))
	require.NoError(t, svc.Require(ctx, admin.ID, domain.RoleEmployee))
	require.NoError(t, svc.Require(ctx, owner.ID, domain.RoleAdmin))
}

func TestRequireDeniesInsufficientRole(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := &AuthorizeService{Store: st}
	ctx := context.Background()

	manager := seedAccountWithRole(t, st, "manager@example.com", domain.RoleManager)

	require.ErrorIs(t, svc.Require(ctx, manager.ID, domain.RoleAdmin), ErrForbidden)
	require.ErrorIs(t, svc.Require(ctx, manager.ID, domain.RoleOwner), ErrForbidden)
}

func TestRequireFailsClosedWithoutRoleRecord(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := &AuthorizeService{Store: st}
	ctx := context.Background()

	noRole := seedAccountWithRole(t, st, "norole@example.com", "")

	// No role record and unknown principals both deny, for every role.
	for _, required := range []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin, domain.RoleOwner} {
		require.ErrorIs(t, svc.Require(ctx, noRole.ID, required), ErrForbidden)
		require.ErrorIs(t, svc.Require(ctx, "nonexistent-principal", required), ErrForbidden)
	}
}

func TestRequireSeesRoleChangesImmediately(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := &AuthorizeService{Store: st}
	ctx := context.Background()

	person := seedAccountWithRole(t, st, "promoted@example.com", domain.RoleEmployee)
	require.ErrorIs(t, svc.Require(ctx, person.ID, domain.RoleAdmin), ErrForbidden)

	require.NoError(t, st.Roles().AssignRole(ctx, person.ID, domain.RoleAdmin))
	require.NoError(t, svc.Require(ctx, person.ID, domain.RoleAdmin))

	// Demotion is just as immediate.
	require.NoError(t, st.Roles().AssignRole(ctx, person.ID, domain.RoleEmployee))
	require.ErrorIs(t, svc.Require(ctx, person.ID, domain.RoleAdmin), ErrForbidden)
}
