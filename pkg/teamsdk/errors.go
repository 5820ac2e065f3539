package teamsdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error codes returned by the team service.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeUnauthorized   = "unauthorized"
	ErrorCodeForbidden      = "forbidden"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeConflict       = "conflict"
	ErrorCodeExpired        = "invite_expired"
	ErrorCodeServerError    = "server_error"
)

// ErrorResponse is the wire shape of an API error. It doubles as the error
// type the SDK surfaces, so callers can inspect the code and status.
type ErrorResponse struct {
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// parseError turns a non-2xx response body into an *ErrorResponse. Bodies
// that are not the expected shape still produce a usable error.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	apiErr := &ErrorResponse{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeServerError
		apiErr.Description = fmt.Sprintf("unexpected response (HTTP %d)", resp.StatusCode)
	}
	return apiErr
}
