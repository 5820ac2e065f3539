package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/crew/internal/team/domain"
	"github.com/aussiebroadwan/crew/internal/team/store"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// ErrForbidden means the principal is authenticated but does not carry the
// required role. Lookup failures deliberately collapse into the same
// answer: authorization fails closed.
var ErrForbidden = errors.New("insufficient role")

// AuthorizeService decides whether a principal may perform an action that
// requires a minimum role. Every decision resolves the principal's current
// role from the store; nothing is cached, so a role change takes effect on
// the very next check.
type AuthorizeService struct {
	Store store.Store
}

// Require returns nil when the principal's current role is at least
// required. A missing role record or a failed lookup denies and is logged
// as an anomaly rather than silently defaulting to a low role.
func (s *AuthorizeService) Require(
	ctx context.Context,
	principalID string,
	required domain.Role,
) error {
	log := slogx.FromContext(ctx)

	role, err := s.Store.Roles().GetAccountRole(ctx, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("authorization denied: principal has no role record",
				slog.String("principal_id", principalID),
			)
			return ErrForbidden
		}
		log.Error("authorization denied: role lookup failed",
			slog.String("principal_id", principalID),
			slog.Any("error", err),
		)
		return ErrForbidden
	}

	if !role.AtLeast(required) {
		log.Warn("authorization denied: insufficient role",
			slog.String("principal_id", principalID),
			slog.String("role", role.String()),
			slog.String("required", required.String()),
		)
		return ErrForbidden
	}

	return nil
}
