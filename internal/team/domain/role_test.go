package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleHierarchyOrder(t *testing.T) {
	t.Parallel()

	ordered := []Role{RoleEmployee, RoleManager, RoleAdmin, RoleOwner}
	for i := 1; i < len(ordered); i++ {
		require.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}
}

func TestAtLeastMatchesRank(t *testing.T) {
	t.Parallel()

	roles := []Role{RoleEmployee, RoleManager, RoleAdmin, RoleOwner}
	for _, actual := range roles {
		for _, required := range roles {
			require.Equal(t,
				actual.Rank() >= required.Rank(),
				actual.AtLeast(required),
				"atLeast(%s, %s)", actual, required,
			)
		}
	}
}

func TestAtLeastFailsClosedForUnknownRoles(t *testing.T) {
	t.Parallel()

	require.False(t, Role("superuser").AtLeast(RoleEmployee))
	require.False(t, RoleOwner.AtLeast(Role("superuser")))
	require.False(t, Role("").AtLeast(RoleEmployee))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"employee", "manager", "admin", "owner"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		require.Equal(t, Role(s), r)
	}

	_, err := ParseRole("Owner")
	require.Error(t, err)
	_, err = ParseRole("")
	require.Error(t, err)
}

func TestInvitable(t *testing.T) {
	t.Parallel()

	require.True(t, RoleEmployee.Invitable())
	require.True(t, RoleManager.Invitable())
	require.True(t, RoleAdmin.Invitable())
	require.False(t, RoleOwner.Invitable())
	require.False(t, Role("junk").Invitable())
}
