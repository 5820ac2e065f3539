package httpx

import (
	"context"
	"net/http"
	"strings"
)

// BearerToken extracts the bearer credential from the Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}

// ContextWithAccount records the verified principal on the context for
// downstream handlers and extractors.
func ContextWithAccount(ctx context.Context, accountID, email string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, accountID)
	return context.WithValue(ctx, CtxKeyEmail, email)
}
