package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LoginResponse is the wire shape of a successful credential exchange.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// RefreshResponse is the wire shape of a successful token refresh.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// APIClient performs raw HTTP calls against the reporting service's
// authentication endpoints. It carries no session state of its own; callers
// pass the bearer token where one is required.
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAPIClient creates an APIClient for the service at baseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges a username/password pair for tokens and a user snapshot.
func (c *APIClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}

	var out LoginResponse
	if err := c.postJSON(ctx, "/api/v1/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var out RefreshResponse
	if err := c.postJSON(ctx, "/api/v1/auth/refresh", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify asks the service whether the access token is still accepted.
// The error reports why verification could not be performed; callers that
// only need a yes/no should treat any error as "no".
func (c *APIClient) Verify(ctx context.Context, accessToken string) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/auth/verify", accessToken, nil)
	if err != nil {
		return fmt.Errorf("verify request: %w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp.StatusCode, body)
	}
	return nil
}

// Logout notifies the service that the session is over. Best effort: the
// caller clears local state regardless of the outcome.
func (c *APIClient) Logout(ctx context.Context, accessToken string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", accessToken, nil)
	if err != nil {
		return fmt.Errorf("logout request: %w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp.StatusCode, body)
	}
	return nil
}

// ChangePassword replaces the caller's password. Service-side rejections
// (wrong current password, weak new password) come back as *APIError.
func (c *APIClient) ChangePassword(ctx context.Context, accessToken, current, newPassword string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	}
	return c.postJSON(ctx, "/api/v1/auth/change-password", accessToken, body, nil)
}

func (c *APIClient) url(path string) string {
	return c.BaseURL + path
}

// do performs an HTTP request, attaching the bearer token when given.
func (c *APIClient) do(ctx context.Context, method, path, accessToken string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.HTTPClient.Do(req)
}

// postJSON sends a JSON body and decodes a JSON answer into out (out may be
// nil when the caller only cares about success). Transport failures wrap
// ErrNetwork; service rejections come back as *APIError.
func (c *APIClient) postJSON(ctx context.Context, path, accessToken string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, accessToken, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getJSON fetches a JSON document into out. Error handling mirrors postJSON.
func (c *APIClient) getJSON(ctx context.Context, path, accessToken string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
