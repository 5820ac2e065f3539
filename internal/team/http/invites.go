package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/crew/internal/team/domain"
	"github.com/aussiebroadwan/crew/internal/team/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/jwtx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
	"github.com/aussiebroadwan/crew/pkg/teamsdk"
)

// InvitesHandler serves the invitation action endpoint. A single envelope
// carries all four operations; create, list, and revoke require a bearer
// access token, while accept authenticates with the invite token itself.
type InvitesHandler struct {
	InviteService *service.InviteService
	Verifier      jwtx.Verifier

	// AcceptLimit is applied to the accept action on top of the endpoint's
	// own limit: acceptance is reachable without credentials and the invite
	// token is guessable in principle, so it gets the strict profile.
	AcceptLimit httpx.Middleware
}

// ServeHTTP godoc
//
//	@Summary		Invitation Action Endpoint
//	@Description	Perform an invitation lifecycle action. The action field selects the operation:
//	@Description	"create" issues an invitation (admin), "list" returns all invitations (admin),
//	@Description	"revoke" cancels a pending invitation (admin), and "accept" redeems an invite
//	@Description	token, provisioning an account if none exists for the invited email.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		teamsdk.InviteActionRequest		true	"Invite action envelope"
//	@Success		200		{object}	teamsdk.CreateInviteResponse	"create: invite, token"
//	@Failure		400		{object}	teamsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	teamsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	teamsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	teamsdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	teamsdk.ErrorResponse			"error, error_description"
//	@Failure		410		{object}	teamsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	teamsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/team/invites [post].
func (h *InvitesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req teamsdk.InviteActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeInvalidRequest,
			Description: "Invalid JSON body",
		})
		return
	}

	switch req.Action {
	case teamsdk.ActionCreate, teamsdk.ActionList, teamsdk.ActionRevoke:
		principalID, ok := h.authenticate(w, r)
		if !ok {
			return
		}
		ctx = httpx.ContextWithAccount(ctx, principalID, "")

		switch req.Action {
		case teamsdk.ActionCreate:
			h.handleCreate(w, r.WithContext(ctx), req, principalID)
		case teamsdk.ActionList:
			h.handleList(w, r.WithContext(ctx), principalID)
		case teamsdk.ActionRevoke:
			h.handleRevoke(w, r.WithContext(ctx), req, principalID)
		}

	case teamsdk.ActionAccept:
		accept := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.handleAccept(w, r, req)
		})
		if h.AcceptLimit != nil {
			h.AcceptLimit(accept).ServeHTTP(w, r)
			return
		}
		accept.ServeHTTP(w, r)

	default:
		httpx.WriteJSON(w, http.StatusBadRequest, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeInvalidRequest,
			Description: "Unknown action",
		})
	}
}

// authenticate verifies the bearer token and returns the principal's account
// id. On failure it writes a 401 and returns ok=false.
func (h *InvitesHandler) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := httpx.BearerToken(r)
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeUnauthorized,
			Description: "Authentication required",
		})
		return "", false
	}

	claims, err := h.Verifier.Verify(token)
	if err != nil || claims.Subject == "" {
		slogx.FromContext(r.Context()).Warn("rejected invalid access token")
		httpx.WriteJSON(w, http.StatusUnauthorized, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeUnauthorized,
			Description: "Invalid or expired access token",
		})
		return "", false
	}

	return claims.Subject, true
}

func (h *InvitesHandler) handleCreate(
	w http.ResponseWriter,
	r *http.Request,
	req teamsdk.InviteActionRequest,
	principalID string,
) {
	if req.Email == "" || req.Role == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeInvalidRequest,
			Description: "email and role are required",
		})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeInvalidRequest,
			Description: "Unknown role",
		})
		return
	}

	invite, token, err := h.InviteService.Create(r.Context(), principalID, req.Email, role)
	if err != nil {
		writeInviteError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, teamsdk.CreateInviteResponse{
		Invite: inviteRecord(invite),
		Token:  token,
	})
}

func (h *InvitesHandler) handleList(w http.ResponseWriter, r *http.Request, principalID string) {
	listings, err := h.InviteService.List(r.Context(), principalID)
	if err != nil {
		writeInviteError(w, r, err)
		return
	}

	records := make([]teamsdk.InviteRecord, 0, len(listings))
	for _, l := range listings {
		rec := inviteRecord(l.Invite)
		rec.InvitedByEmail = l.InvitedByEmail
		records = append(records, rec)
	}

	httpx.WriteJSON(w, http.StatusOK, teamsdk.ListInvitesResponse{Invites: records})
}

func (h *InvitesHandler) handleRevoke(
	w http.ResponseWriter,
	r *http.Request,
	req teamsdk.InviteActionRequest,
	principalID string,
) {
	if req.InviteID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeInvalidRequest,
			Description: "inviteId is required",
		})
		return
	}

	if err := h.InviteService.Revoke(r.Context(), principalID, req.InviteID); err != nil {
		writeInviteError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, teamsdk.ActionSuccessResponse{Success: true})
}

func (h *InvitesHandler) handleAccept(
	w http.ResponseWriter,
	r *http.Request,
	req teamsdk.InviteActionRequest,
) {
	account, role, err := h.InviteService.Accept(r.Context(), req.Token, req.Password, req.FullName)
	if err != nil {
		writeInviteError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, teamsdk.AcceptInviteResponse{
		Success:   true,
		AccountID: account.ID,
		Email:     account.Email,
		Role:      role.String(),
	})
}

// writeInviteError maps service errors onto the HTTP error taxonomy. Unknown
// errors become opaque 500s; their detail stays in the logs.
func writeInviteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteJSON(w, http.StatusForbidden, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeForbidden,
			Description: "Admin role required",
		})
	case errors.Is(err, service.ErrInvalidInviteRequest):
		httpx.WriteJSON(w, http.StatusBadRequest, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeInvalidRequest,
			Description: "Invalid invite parameters",
		})
	case errors.Is(err, service.ErrInvalidRole):
		httpx.WriteJSON(w, http.StatusBadRequest, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeInvalidRequest,
			Description: "Role cannot be granted by invitation",
		})
	case errors.Is(err, service.ErrAccountExists):
		httpx.WriteJSON(w, http.StatusConflict, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeConflict,
			Description: "An account already exists for this email",
		})
	case errors.Is(err, service.ErrAlreadyTerminal):
		httpx.WriteJSON(w, http.StatusConflict, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeConflict,
			Description: "Invite is no longer pending",
		})
	case errors.Is(err, service.ErrInviteNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeNotFound,
			Description: "Invite not found",
		})
	case errors.Is(err, service.ErrInvalidToken):
		// Unknown tokens read the same as missing invites so the endpoint
		// cannot be used to probe for valid tokens.
		httpx.WriteJSON(w, http.StatusNotFound, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeNotFound,
			Description: "Invite not found",
		})
	case errors.Is(err, service.ErrInviteExpired):
		httpx.WriteJSON(w, http.StatusGone, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeExpired,
			Description: "Invite has expired",
		})
	default:
		slogx.FromContext(r.Context()).Error("invite action failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, teamsdk.ErrorResponse{
			Code:        teamsdk.ErrorCodeServerError,
			Description: "Internal server error",
		})
	}
}

func inviteRecord(inv domain.Invite) teamsdk.InviteRecord {
	return teamsdk.InviteRecord{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role.String(),
		Status:    string(inv.Status),
		InvitedBy: inv.InvitedBy,
		CreatedAt: inv.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt: inv.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
