package domain

import "time"

// InviteStatus is the lifecycle state of an invitation. Transitions are
// one-directional: pending may become accepted or revoked (stored) or
// expired (derived); nothing ever returns to pending.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRevoked  InviteStatus = "revoked"

	// InviteStatusExpired is never written to storage. It is computed at
	// read time for pending invites past their deadline.
	InviteStatusExpired InviteStatus = "expired"
)

// Terminal reports whether no further transition is possible from s.
func (s InviteStatus) Terminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusRevoked || s == InviteStatusExpired
}

// Invite is an offer of membership at a specific role, bound to a secret
// token (stored only as a fingerprint) and a fixed expiry.
type Invite struct {
	ID        string
	Email     string
	Role      Role
	TokenHash string
	Status    InviteStatus
	InvitedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus returns the status as observed at now: a stored pending
// invite past its deadline presents as expired without any mutation.
func (i Invite) EffectiveStatus(now time.Time) InviteStatus {
	if i.Status == InviteStatusPending && !now.Before(i.ExpiresAt) {
		return InviteStatusExpired
	}
	return i.Status
}

// InviteListing is an invite joined with the inviter's email for display.
type InviteListing struct {
	Invite

	InvitedByEmail string
}
