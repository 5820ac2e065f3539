package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/crew/internal/team/domain"
)

type rolesRepo struct {
	q querier
}

func (r *rolesRepo) GetAccountRole(ctx context.Context, accountID string) (domain.Role, error) {
	var role string
	err := r.q.QueryRowContext(ctx,
		`SELECT role FROM account_roles WHERE account_id = ?`, accountID,
	).Scan(&role)
	if err != nil {
		return "", mapNotFound(err)
	}
	return domain.Role(role), nil
}

func (r *rolesRepo) AssignRole(ctx context.Context, accountID string, role domain.Role) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO account_roles (account_id, role, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			role = excluded.role,
			updated_at = excluded.updated_at`,
		accountID, string(role), time.Now().UTC(),
	)
	return err
}
