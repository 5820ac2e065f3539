package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"time"

	"github.com/aussiebroadwan/crew/internal/team/domain"
	"github.com/aussiebroadwan/crew/internal/team/store"
	"github.com/aussiebroadwan/crew/pkg/cryptox"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// DefaultInviteTTL is how long an invitation stays redeemable.
const DefaultInviteTTL = 7 * 24 * time.Hour

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInvalidRole          = errors.New("role cannot be granted by invitation")
	ErrAccountExists        = errors.New("an account already exists for this email")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInvalidToken         = errors.New("invite token is not valid")
	ErrInviteExpired        = errors.New("invite has expired")
	ErrAlreadyTerminal      = errors.New("invite is no longer pending")
)

// InviteService owns the invitation state machine: issuing invitations,
// listing them with derived expiry, revoking, and accepting. All privileged
// operations gate through the AuthorizeService with the caller's current
// role.
type InviteService struct {
	Store     store.Store
	Authorize *AuthorizeService

	// TTL defaults to DefaultInviteTTL when zero.
	TTL time.Duration
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInviteTTL
}

// Create issues a new invitation for email at the given role and returns
// the stored invite along with the raw token. The raw token is returned
// exactly once, here; only its fingerprint is persisted.
func (s *InviteService) Create(
	ctx context.Context,
	principalID string,
	email string,
	role domain.Role,
) (domain.Invite, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Only admins (and above) may invite.
	if err := s.Authorize.Require(ctx, principalID, domain.RoleAdmin); err != nil {
		return domain.Invite{}, "", err
	}

	// 2. Validate inputs. Ownership is never granted by invitation.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Invite{}, "", ErrInvalidInviteRequest
	}
	if !role.Invitable() {
		log.Warn("attempted to create invite with non-invitable role",
			slog.String("role", role.String()),
			slog.String("principal_id", principalID),
		)
		return domain.Invite{}, "", ErrInvalidRole
	}

	// 3. An email that already resolves to an account cannot be invited.
	_, err = s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err == nil {
		return domain.Invite{}, "", ErrAccountExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check for existing account", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	// 4. Generate the secret token; only its fingerprint is stored.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	now := time.Now().UTC()
	invite := domain.Invite{
		ID:        idx.New().String(),
		Email:     email,
		Role:      role,
		TokenHash: cryptox.FingerprintToken(token),
		Status:    domain.InviteStatusPending,
		InvitedBy: principalID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
		UpdatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Invites().CreateInvite(ctx, invite)
	})
	if err != nil {
		log.Error("failed to store invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return domain.Invite{}, "", err
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("email", invite.Email),
		slog.String("role", invite.Role.String()),
		slog.String("invited_by", principalID),
		slog.Time("expires_at", invite.ExpiresAt),
	)

	return invite, token, nil
}

// List returns every invitation newest-first with its effective status:
// a pending invitation past its deadline is presented as expired without
// mutating the stored record. Tokens are never included.
func (s *InviteService) List(ctx context.Context, principalID string) ([]domain.InviteListing, error) {
	if err := s.Authorize.Require(ctx, principalID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	listings, err := s.Store.Invites().ListInvites(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list invites", slog.Any("error", err))
		return nil, err
	}

	now := time.Now().UTC()
	for i := range listings {
		listings[i].Status = listings[i].EffectiveStatus(now)
	}

	return listings, nil
}

// Revoke moves a pending invitation to revoked. Invitations already in a
// terminal state (including derived expiry) fail with ErrAlreadyTerminal.
func (s *InviteService) Revoke(ctx context.Context, principalID, inviteID string) error {
	log := slogx.FromContext(ctx)

	if err := s.Authorize.Require(ctx, principalID, domain.RoleAdmin); err != nil {
		return err
	}

	invite, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.String("invite_id", inviteID), slog.Any("error", err))
		return err
	}

	// Same now for the status check and the conditional update.
	now := time.Now().UTC()
	if invite.EffectiveStatus(now).Terminal() {
		return ErrAlreadyTerminal
	}

	ok, err := s.Store.Invites().TransitionStatus(ctx, invite.ID, domain.InviteStatusRevoked, now)
	if err != nil {
		log.Error("failed to revoke invite", slog.String("invite_id", inviteID), slog.Any("error", err))
		return err
	}
	if !ok {
		// Lost the race against accept or the deadline.
		return ErrAlreadyTerminal
	}

	log.Info("invite revoked",
		slog.String("invite_id", invite.ID),
		slog.String("revoked_by", principalID),
	)

	return nil
}

// Accept redeems an invitation token and returns the resolved account with
// the role it was granted. The invitee has no role yet, so there is no
// authorization precondition; the token is the credential. On success an
// account is provisioned (or an existing account for the email linked), the
// invited role is assigned, and the invitation becomes accepted, all in one
// transaction. Any failure leaves the invitation pending and retryable.
func (s *InviteService) Accept(
	ctx context.Context,
	token string,
	password string,
	fullName string,
) (domain.Account, domain.Role, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.Account{}, "", ErrInvalidToken
	}

	invite, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invite acceptance attempted with unknown token")
			return domain.Account{}, "", ErrInvalidToken
		}
		log.Error("failed to fetch invite by token", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	// One now snapshot for the expiry check and the transition below, so
	// an accept racing the deadline cannot observe pending here and still
	// win the update after expiry.
	now := time.Now().UTC()
	switch status := invite.EffectiveStatus(now); status {
	case domain.InviteStatusPending:
		// fallthrough to redemption
	case domain.InviteStatusExpired:
		log.Warn("invite acceptance attempted past expiry",
			slog.String("invite_id", invite.ID),
			slog.Time("expires_at", invite.ExpiresAt),
		)
		return domain.Account{}, "", ErrInviteExpired
	default:
		log.Warn("invite acceptance attempted on terminal invite",
			slog.String("invite_id", invite.ID),
			slog.String("status", string(status)),
		)
		return domain.Account{}, "", ErrAlreadyTerminal
	}

	var account domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Transition first: it makes this transaction the writer up
		// front, so a racing revoke queues behind it instead of
		// invalidating a read snapshot mid-transaction. Losing the
		// conditional update means a revoke (or the deadline) won.
		ok, err := tx.Invites().TransitionStatus(ctx, invite.ID, domain.InviteStatusAccepted, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyTerminal
		}

		// Provision an account, or link one that appeared for this email
		// after the invitation was issued.
		existing, err := tx.Accounts().GetAccountByEmail(ctx, invite.Email)
		switch {
		case err == nil:
			account = existing
		case errors.Is(err, store.ErrNotFound):
			if password == "" {
				return ErrInvalidInviteRequest
			}
			hash, err := cryptox.HashPassword(password)
			if err != nil {
				return err
			}
			account = domain.Account{
				ID:           idx.New().String(),
				Email:        invite.Email,
				FullName:     fullName,
				PasswordHash: hash,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
				return err
			}
		default:
			return err
		}

		// Role assignment and the accepted status commit or roll back as
		// one unit; a failure here leaves the invitation pending.
		return tx.Roles().AssignRole(ctx, account.ID, invite.Role)
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyTerminal) && !errors.Is(err, ErrInvalidInviteRequest) {
			log.Error("failed to accept invite",
				slog.String("invite_id", invite.ID),
				slog.Any("error", err),
			)
		}
		return domain.Account{}, "", err
	}

	log.Info("invite accepted",
		slog.String("invite_id", invite.ID),
		slog.String("account_id", account.ID),
		slog.String("role", invite.Role.String()),
	)

	return account, invite.Role, nil
}
