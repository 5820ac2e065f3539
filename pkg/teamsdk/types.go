package teamsdk

// Action names accepted by the invite endpoint.
const (
	ActionCreate = "create"
	ActionList   = "list"
	ActionRevoke = "revoke"
	ActionAccept = "accept"
)

// InviteActionRequest is the request envelope for POST /v1/team/invites.
// Action selects the operation; the remaining fields are read per action:
//
//	create: email, role
//	list:   (no extra fields)
//	revoke: inviteId
//	accept: token, password, fullName
type InviteActionRequest struct {
	Action string `json:"action"`

	// Create fields.
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	// Revoke fields.
	InviteID string `json:"inviteId,omitempty"`

	// Accept fields. Password and FullName are only needed when no account
	// exists yet for the invited email.
	Token    string `json:"token,omitempty"`
	Password string `json:"password,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// InviteRecord is an invitation as presented by the API. The status is the
// effective one: a pending invitation past its deadline reads as "expired".
// The invite token is never part of a record.
type InviteRecord struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	InvitedBy string `json:"invited_by"`

	// InvitedByEmail is only populated on list responses.
	InvitedByEmail string `json:"invited_by_email,omitempty"`

	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// CreateInviteResponse carries the new invitation and its raw token. The
// token appears here exactly once; it cannot be recovered later.
type CreateInviteResponse struct {
	Invite InviteRecord `json:"invite"`
	Token  string       `json:"token"`
}

// ListInvitesResponse carries every invitation, newest first.
type ListInvitesResponse struct {
	Invites []InviteRecord `json:"invites"`
}

// ActionSuccessResponse acknowledges a revoke.
type ActionSuccessResponse struct {
	Success bool `json:"success"`
}

// AcceptInviteResponse carries the account the invitation resolved to.
type AcceptInviteResponse struct {
	Success   bool   `json:"success"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// HealthChecks reports the state of the service's critical dependencies.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Verifier string `json:"verifier,omitempty"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
