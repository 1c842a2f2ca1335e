package authclient

import (
	"context"
	"fmt"
	"time"
)

// CredentialBackend is the strategy for exchanging and maintaining
// credentials. Two concrete backends exist — RemoteBackend against the
// reporting service and LocalTableBackend against a static roster — plus
// FallbackBackend, which composes them and keeps the "only login falls
// back" rule in one place.
type CredentialBackend interface {
	// Login exchanges credentials for a new, not-yet-persisted session.
	Login(ctx context.Context, username, password string) (Session, error)

	// Refresh exchanges the current session for one with fresh tokens and a
	// fresh issue timestamp. The user snapshot is preserved unless the
	// backend returns an updated one.
	Refresh(ctx context.Context, cur Session) (Session, error)

	// Verify reports whether the session's access token is still accepted.
	// Never returns an error; any ambiguity is false.
	Verify(ctx context.Context, cur Session) bool

	// Logout notifies the backend that the session is over. Best effort.
	Logout(ctx context.Context, cur Session) error

	// ChangePassword replaces the password for the session's user.
	ChangePassword(ctx context.Context, cur Session, current, newPassword string) error
}

// RemoteBackend exchanges credentials against the reporting service.
type RemoteBackend struct {
	api *APIClient
	now func() time.Time
}

// NewRemoteBackend wraps an APIClient as a CredentialBackend.
func NewRemoteBackend(api *APIClient) *RemoteBackend {
	return &RemoteBackend{api: api, now: time.Now}
}

func (b *RemoteBackend) Login(ctx context.Context, username, password string) (Session, error) {
	resp, err := b.api.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}

	return Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
		IssuedAt:     b.now(),
	}, nil
}

func (b *RemoteBackend) Refresh(ctx context.Context, cur Session) (Session, error) {
	if cur.RefreshToken == "" {
		return Session{}, fmt.Errorf("remote refresh: %w", ErrNoRefreshToken)
	}

	resp, err := b.api.Refresh(ctx, cur.RefreshToken)
	if err != nil {
		return Session{}, err
	}

	next := cur.restamp(b.now())
	next.AccessToken = resp.AccessToken
	next.RefreshToken = resp.RefreshToken
	return next, nil
}

func (b *RemoteBackend) Verify(ctx context.Context, cur Session) bool {
	if cur.AccessToken == "" {
		return false
	}
	return b.api.Verify(ctx, cur.AccessToken) == nil
}

func (b *RemoteBackend) Logout(ctx context.Context, cur Session) error {
	if cur.AccessToken == "" {
		return nil
	}
	return b.api.Logout(ctx, cur.AccessToken)
}

func (b *RemoteBackend) ChangePassword(ctx context.Context, cur Session, current, newPassword string) error {
	return b.api.ChangePassword(ctx, cur.AccessToken, current, newPassword)
}
