package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors forming the package's error taxonomy. Errors returned from
// Client and Manager operations wrap one of these; callers branch with
// errors.Is.
var (
	// ErrInvalidCredentials means neither the remote service nor the local
	// fallback table accepted the username/password pair. User-correctable.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrNetwork means the remote service was reachable but answered with a
	// non-auth failure, or could not be reached at all. Transient, retryable.
	ErrNetwork = errors.New("network_error")

	// ErrUnauthenticated means an authenticated-only operation was called
	// with no active session. This is a flow error, not user input.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionExpired means the session aged past its fixed duration or
	// failed revalidation. Distinct from ErrInvalidCredentials so the UI can
	// say "your session timed out" instead of "wrong password".
	ErrSessionExpired = errors.New("session_expired")

	// ErrRoleDenied means the session is live but the user's role does not
	// grant the requested feature.
	ErrRoleDenied = errors.New("role_denied")

	// ErrNoRefreshToken means a refresh was requested but the session holds
	// no refresh token and is not a local-fallback session.
	ErrNoRefreshToken = errors.New("no_refresh_token")
)

// API error codes shared between the reporting service handlers and this SDK.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeInvalidRefresh     = "invalid_refresh_token"
	CodeWrongPassword      = "wrong_password"
	CodeWeakPassword       = "weak_password"
	CodeValidation         = "validation_error"
	CodeRoleDenied         = "role_denied"
	CodeRateLimited        = "rate_limited"
	CodeServerError        = "server_error"
)

// APIError is the wire error shape of the reporting service. The server
// handlers write it and the SDK parses it back, so both sides agree on one
// taxonomy.
type APIError struct {
	// StatusCode is the HTTP status the error travelled with.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (see Code* constants).
	Code string `json:"error"`

	// Detail is the human-readable description.
	Detail string `json:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Unwrap maps the wire code onto the package's sentinel taxonomy so that
// errors.Is works across the HTTP boundary.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case CodeInvalidCredentials:
		return ErrInvalidCredentials
	case CodeInvalidToken, CodeInvalidRefresh:
		return ErrSessionExpired
	case CodeRoleDenied:
		return ErrRoleDenied
	case CodeServerError, CodeRateLimited:
		return ErrNetwork
	}
	return nil
}

// Write writes the error as a JSON HTTP response. Used by the reporting
// service handlers.
func (e *APIError) Write(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// NewAPIError builds an APIError with the given status, code and detail.
func NewAPIError(statusCode int, code, detail string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Detail: detail}
}

// parseErrorResponse turns a non-2xx response body into a typed error.
// Falls back to a generic APIError built from the status code when the body
// is not in the expected shape.
func parseErrorResponse(statusCode int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = statusCode
		return &apiErr
	}

	// FastAPI-era deployments answer {"detail": "..."} with no code.
	var detailOnly struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detailOnly); err == nil && detailOnly.Detail != "" {
		return &APIError{
			StatusCode: statusCode,
			Code:       codeForStatus(statusCode),
			Detail:     detailOnly.Detail,
		}
	}

	return &APIError{
		StatusCode: statusCode,
		Code:       codeForStatus(statusCode),
		Detail:     fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode)),
	}
}

func codeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusUnauthorized:
		return CodeInvalidToken
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeServerError
	}
}
