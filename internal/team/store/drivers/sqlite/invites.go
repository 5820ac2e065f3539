package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/crew/internal/team/domain"
)

type invitesRepo struct {
	q querier
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invites (id, email, role, token_hash, status, invited_by, created_at, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.Email,
		string(inv.Role),
		inv.TokenHash,
		string(inv.Status),
		inv.InvitedBy,
		inv.CreatedAt.UTC(),
		inv.ExpiresAt.UTC(),
		inv.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

const inviteColumns = `id, email, role, token_hash, status, invited_by, created_at, expires_at, updated_at`

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id)
	return scanInvite(row)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_hash = ?`, hash)
	return scanInvite(row)
}

func (r *invitesRepo) ListInvites(ctx context.Context) ([]domain.InviteListing, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT i.id, i.email, i.role, i.token_hash, i.status, i.invited_by,
		       i.created_at, i.expires_at, i.updated_at,
		       COALESCE(a.email, '') AS invited_by_email
		FROM invites i
		LEFT JOIN accounts a ON a.id = i.invited_by
		ORDER BY i.created_at DESC, i.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InviteListing
	for rows.Next() {
		var l domain.InviteListing
		var role, status string
		if err := rows.Scan(
			&l.ID, &l.Email, &role, &l.TokenHash, &status, &l.InvitedBy,
			&l.CreatedAt, &l.ExpiresAt, &l.UpdatedAt, &l.InvitedByEmail,
		); err != nil {
			return nil, err
		}
		l.Role = domain.Role(role)
		l.Status = domain.InviteStatus(status)
		out = append(out, l)
	}

	return out, rows.Err()
}

// TransitionStatus is the per-record serialization point: the UPDATE only
// matches while the row is still pending and not past its deadline at now,
// so of two racing transitions exactly one reports true.
func (r *invitesRepo) TransitionStatus(
	ctx context.Context,
	id string,
	to domain.InviteStatus,
	now time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invites
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'pending' AND expires_at > ?`,
		string(to), now.UTC(), id, now.UTC(),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanInvite(row *sql.Row) (domain.Invite, error) {
	var inv domain.Invite
	var role, status string
	err := row.Scan(
		&inv.ID, &inv.Email, &role, &inv.TokenHash, &status, &inv.InvitedBy,
		&inv.CreatedAt, &inv.ExpiresAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.Role = domain.Role(role)
	inv.Status = domain.InviteStatus(status)
	return inv, nil
}
