package authclient

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFallbackLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	unreachable := &stubBackend{
		loginFn: func(context.Context, string, string) (Session, error) {
			return Session{}, fmt.Errorf("/api/v1/auth/login: %w: connection refused", ErrNetwork)
		},
	}

	t.Run("remote success wins", func(t *testing.T) {
		t.Parallel()

		remote := &stubBackend{
			loginFn: func(context.Context, string, string) (Session, error) {
				return testSession(time.Now()), nil
			},
		}
		b := newFallbackBackend(remote, NewLocalTableBackend())

		sess, err := b.Login(ctx, "reportes.bogota", "whatever")
		require.NoError(t, err)
		require.False(t, sess.Local)
	})

	t.Run("unreachable remote falls back to local table", func(t *testing.T) {
		t.Parallel()

		b := newFallbackBackend(unreachable, NewLocalTableBackend())

		sess, err := b.Login(ctx, "admin.general", "admin2024")
		require.NoError(t, err)
		require.True(t, sess.Local)
		require.Equal(t, "admin.general", sess.User.Username)
	})

	t.Run("remote rejection sticks even when local would too", func(t *testing.T) {
		t.Parallel()

		remote := &stubBackend{
			loginFn: func(context.Context, string, string) (Session, error) {
				return Session{}, NewAPIError(http.StatusUnauthorized, CodeInvalidCredentials, "bad credentials")
			},
		}
		b := newFallbackBackend(remote, NewLocalTableBackend())

		_, err := b.Login(ctx, "admin.general", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("reachable but broken remote surfaces its error", func(t *testing.T) {
		t.Parallel()

		remote := &stubBackend{
			loginFn: func(context.Context, string, string) (Session, error) {
				return Session{}, NewAPIError(http.StatusInternalServerError, CodeServerError, "database down")
			},
		}
		b := newFallbackBackend(remote, NewLocalTableBackend())

		_, err := b.Login(ctx, "not.in.table", "nope")
		require.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("unreachable remote and local miss is invalid credentials", func(t *testing.T) {
		t.Parallel()

		b := newFallbackBackend(unreachable, NewLocalTableBackend())

		_, err := b.Login(ctx, "not.in.table", "nope")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestFallbackRoutesBySessionMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	remoteCalls := 0
	remote := &stubBackend{
		loginFn: func(context.Context, string, string) (Session, error) {
			return Session{}, ErrNetwork
		},
		refreshFn: func(_ context.Context, cur Session) (Session, error) {
			remoteCalls++
			return cur, nil
		},
		verifyFn: func(context.Context, Session) bool {
			remoteCalls++
			return true
		},
		logoutFn: func(context.Context, Session) error {
			remoteCalls++
			return nil
		},
	}
	b := newFallbackBackend(remote, NewLocalTableBackend())

	local := Session{AccessToken: "local-x", User: User{Username: "admin.general"}, Local: true}
	_, err := b.Refresh(ctx, local)
	require.NoError(t, err)
	require.True(t, b.Verify(ctx, local))
	require.NoError(t, b.Logout(ctx, local))
	require.Zero(t, remoteCalls, "local sessions must never touch the remote backend")

	remoteSess := testSession(time.Now())
	_, err = b.Refresh(ctx, remoteSess)
	require.NoError(t, err)
	require.True(t, b.Verify(ctx, remoteSess))
	require.NoError(t, b.Logout(ctx, remoteSess))
	require.Equal(t, 3, remoteCalls)
}
