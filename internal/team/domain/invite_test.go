package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEffectiveStatusLazyExpiry(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	inv := Invite{
		Status:    InviteStatusPending,
		CreatedAt: created,
		ExpiresAt: created.Add(7 * 24 * time.Hour),
	}

	require.Equal(t, InviteStatusPending, inv.EffectiveStatus(created))
	require.Equal(t, InviteStatusPending, inv.EffectiveStatus(inv.ExpiresAt.Add(-time.Second)))

	// The deadline itself is already expired.
	require.Equal(t, InviteStatusExpired, inv.EffectiveStatus(inv.ExpiresAt))
	require.Equal(t, InviteStatusExpired, inv.EffectiveStatus(inv.ExpiresAt.Add(24*time.Hour)))
}

func TestEffectiveStatusLeavesTerminalAlone(t *testing.T) {
	t.Parallel()

	past := time.Now().UTC().Add(-30 * 24 * time.Hour)
	for _, status := range []InviteStatus{InviteStatusAccepted, InviteStatusRevoked} {
		inv := Invite{Status: status, ExpiresAt: past}
		require.Equal(t, status, inv.EffectiveStatus(time.Now().UTC()))
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	require.False(t, InviteStatusPending.Terminal())
	require.True(t, InviteStatusAccepted.Terminal())
	require.True(t, InviteStatusRevoked.Terminal())
	require.True(t, InviteStatusExpired.Terminal())
}
