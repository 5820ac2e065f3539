package teamsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const invitesPath = "/v1/team/invites"

// SDKClient is a client for the team service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a team service client for the given base URL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateInvite issues an invitation for email at the given role. Requires an
// access token for an admin (or owner). The response carries the raw invite
// token exactly once.
func (c *SDKClient) CreateInvite(
	ctx context.Context,
	accessToken, email, role string,
) (*CreateInviteResponse, error) {
	req := InviteActionRequest{Action: ActionCreate, Email: email, Role: role}

	var out CreateInviteResponse
	if err := c.doAction(ctx, accessToken, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvites returns every invitation newest-first with effective statuses.
// Requires an access token for an admin (or owner).
func (c *SDKClient) ListInvites(ctx context.Context, accessToken string) (*ListInvitesResponse, error) {
	req := InviteActionRequest{Action: ActionList}

	var out ListInvitesResponse
	if err := c.doAction(ctx, accessToken, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeInvite moves a pending invitation to revoked. Requires an access
// token for an admin (or owner).
func (c *SDKClient) RevokeInvite(ctx context.Context, accessToken, inviteID string) error {
	req := InviteActionRequest{Action: ActionRevoke, InviteID: inviteID}

	var out ActionSuccessResponse
	return c.doAction(ctx, accessToken, req, &out)
}

// AcceptInvite redeems an invitation token. No access token is needed; the
// invite token is the credential. Password and fullName are required when no
// account exists yet for the invited email.
func (c *SDKClient) AcceptInvite(
	ctx context.Context,
	token, password, fullName string,
) (*AcceptInviteResponse, error) {
	req := InviteActionRequest{
		Action:   ActionAccept,
		Token:    token,
		Password: password,
		FullName: fullName,
	}

	var out AcceptInviteResponse
	if err := c.doAction(ctx, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Livez reports basic liveness of the service.
func (c *SDKClient) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz reports readiness including dependency checks. A degraded service
// returns the response alongside the HTTP error.
func (c *SDKClient) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) doAction(
	ctx context.Context,
	accessToken string,
	action InviteActionRequest,
	out any,
) error {
	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+invitesPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &out, &ErrorResponse{
			StatusCode:  resp.StatusCode,
			Code:        ErrorCodeServerError,
			Description: "service not ready",
		}
	}
	return &out, nil
}
