// Package teamsdk provides a Go client for the team service HTTP API.
//
// The team service exposes a single action endpoint for the invitation
// lifecycle. The SDK wraps that envelope so callers work with typed
// operations instead:
//
//	client := teamsdk.NewSDKClient("http://localhost:8080")
//
//	// Privileged operations carry the caller's access token.
//	created, err := client.CreateInvite(ctx, accessToken, "new@company.com", "manager")
//
//	// Acceptance needs only the invite token.
//	account, err := client.AcceptInvite(ctx, created.Token, "password", "Full Name")
package teamsdk
