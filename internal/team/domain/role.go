package domain

import "fmt"

// Role is a position in the team's privilege hierarchy. Roles form a total
// order: Employee < Manager < Admin < Owner.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
)

// rank values are the single source of truth for the ordering. Presentation
// layers must gate through AtLeast rather than comparing role strings.
var rank = map[Role]int{
	RoleEmployee: 0,
	RoleManager:  1,
	RoleAdmin:    2,
	RoleOwner:    3,
}

// ParseRole validates a role string. Invalid strings are a caller error.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := rank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// Rank returns the role's position in the hierarchy, strictly increasing
// with privilege. Undefined roles rank below every real role.
func (r Role) Rank() int {
	if v, ok := rank[r]; ok {
		return v
	}
	return -1
}

// AtLeast reports whether r carries at least the privilege of required.
func (r Role) AtLeast(required Role) bool {
	return r.Valid() && required.Valid() && r.Rank() >= required.Rank()
}

// Invitable reports whether a role may be offered through an invitation.
// Ownership is never granted by invite.
func (r Role) Invitable() bool {
	return r.Valid() && r.Rank() < RoleOwner.Rank()
}

func (r Role) String() string { return string(r) }
