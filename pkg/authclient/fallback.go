package authclient

import (
	"context"
	"errors"
)

// FallbackBackend tries the remote backend first and falls back to the local
// credential table for the login operation only. Every other operation keeps
// the fail-closed behavior of whichever mode the session was minted in.
type FallbackBackend struct {
	remote CredentialBackend
	local  CredentialBackend
}

// NewFallbackBackend composes a remote backend (usually over an APIClient)
// with a local one.
func NewFallbackBackend(api *APIClient, local *LocalTableBackend) *FallbackBackend {
	return &FallbackBackend{remote: NewRemoteBackend(api), local: local}
}

// newFallbackBackend is the fully-injectable constructor used by tests.
func newFallbackBackend(remote, local CredentialBackend) *FallbackBackend {
	return &FallbackBackend{remote: remote, local: local}
}

// Login attempts the remote exchange; on any remote failure it consults the
// local table. When both paths reject:
//
//   - credentials the remote explicitly refused stay ErrInvalidCredentials;
//   - a reachable remote that failed for a non-auth reason surfaces as
//     ErrNetwork, since retrying may well succeed;
//   - an unreachable remote plus a local miss is ErrInvalidCredentials —
//     neither path accepted the credentials.
func (b *FallbackBackend) Login(ctx context.Context, username, password string) (Session, error) {
	sess, remoteErr := b.remote.Login(ctx, username, password)
	if remoteErr == nil {
		return sess, nil
	}

	sess, localErr := b.local.Login(ctx, username, password)
	if localErr == nil {
		return sess, nil
	}

	if errors.Is(remoteErr, ErrInvalidCredentials) {
		return Session{}, remoteErr
	}

	var apiErr *APIError
	if errors.As(remoteErr, &apiErr) {
		// Reachable but broken (5xx, rate limited, ...). Not the user's fault.
		return Session{}, remoteErr
	}

	return Session{}, localErr
}

// Refresh routes by session mode: local sessions re-stamp and succeed,
// remote sessions go to the service and fail closed.
func (b *FallbackBackend) Refresh(ctx context.Context, cur Session) (Session, error) {
	if cur.Local {
		return b.local.Refresh(ctx, cur)
	}
	return b.remote.Refresh(ctx, cur)
}

func (b *FallbackBackend) Verify(ctx context.Context, cur Session) bool {
	if cur.Local {
		return b.local.Verify(ctx, cur)
	}
	return b.remote.Verify(ctx, cur)
}

func (b *FallbackBackend) Logout(ctx context.Context, cur Session) error {
	if cur.Local {
		return b.local.Logout(ctx, cur)
	}
	return b.remote.Logout(ctx, cur)
}

func (b *FallbackBackend) ChangePassword(ctx context.Context, cur Session, current, newPassword string) error {
	if cur.Local {
		return b.local.ChangePassword(ctx, cur, current, newPassword)
	}
	return b.remote.ChangePassword(ctx, cur, current, newPassword)
}
