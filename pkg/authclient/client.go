package authclient

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Client is the credential exchange client: it drives a CredentialBackend
// and keeps the SessionStore in step with the outcome of every operation.
// Client performs no state-machine bookkeeping; the Manager does that.
type Client struct {
	backend CredentialBackend
	store   SessionStore
	logger  *slog.Logger

	// now is a seam for tests; defaults to time.Now.
	now func() time.Time
}

// NewClient creates a Client over the given backend and store. A nil logger
// falls back to slog.Default.
func NewClient(backend CredentialBackend, store SessionStore, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		backend: backend,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Store exposes the session store for collaborators that need direct reads
// (the Manager's gate predicates recompute validity from it).
func (c *Client) Store() SessionStore { return c.store }

// Login exchanges credentials through the backend and, on success, persists
// the new session atomically. The returned User never carries a password.
func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	sess, err := c.backend.Login(ctx, username, password)
	if err != nil {
		return User{}, err
	}

	if sess.IssuedAt.IsZero() {
		sess.IssuedAt = c.now()
	}
	if err := c.store.Save(sess); err != nil {
		return User{}, fmt.Errorf("persist session: %w", err)
	}

	c.logger.Info("login succeeded",
		"username", sess.User.Username,
		"role", string(sess.User.Role),
		"local", sess.Local,
	)
	return sess.User, nil
}

// Logout ends the session. The remote notification is best effort — a
// failure is logged and swallowed — but the local clear is unconditional:
// logout is a local guarantee.
func (c *Client) Logout(ctx context.Context) error {
	sess, ok, err := c.store.Load()
	if err == nil && ok {
		if err := c.backend.Logout(ctx, sess); err != nil {
			c.logger.Warn("remote logout failed, clearing locally anyway", "error", err)
		}
	}

	return c.store.Clear()
}

// Refresh renews the current session's tokens and issue timestamp. Any
// refresh failure forces a logout before the error is returned: callers must
// not assume a failed refresh leaves the session intact.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	sess, ok, err := c.store.Load()
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("refresh: %w", ErrUnauthenticated)
	}

	next, err := c.backend.Refresh(ctx, sess)
	if err != nil {
		c.logger.Warn("refresh failed, forcing logout", "error", err)
		if clearErr := c.store.Clear(); clearErr != nil {
			c.logger.Error("session clear after failed refresh", "error", clearErr)
		}
		return "", err
	}

	if err := c.store.Save(next); err != nil {
		return "", fmt.Errorf("persist refreshed session: %w", err)
	}
	return next.AccessToken, nil
}

// Verify reports whether the current session is still accepted. It never
// returns an error: no session, a failed store read, or an undecidable
// remote answer are all false.
func (c *Client) Verify(ctx context.Context) bool {
	sess, ok, err := c.store.Load()
	if err != nil || !ok {
		return false
	}
	return c.backend.Verify(ctx, sess)
}

// ChangePassword requires an active session and surfaces backend rejections
// verbatim. It has no side effects on the session either way.
func (c *Client) ChangePassword(ctx context.Context, current, newPassword string) error {
	sess, ok, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return fmt.Errorf("change password: %w", ErrUnauthenticated)
	}

	return c.backend.ChangePassword(ctx, sess, current, newPassword)
}

// AccessToken returns the stored access token, or "" when no session exists.
// Collaborators use it to authorize report submissions.
func (c *Client) AccessToken() string {
	sess, ok, err := c.store.Load()
	if err != nil || !ok {
		return ""
	}
	return sess.AccessToken
}
