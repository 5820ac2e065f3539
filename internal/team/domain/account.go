package domain

import "time"

// Account is an identity known to the team: someone who signed up through
// an invitation or was provisioned out of band. Its role lives in a
// separate record so privilege changes never touch the identity row.
type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
