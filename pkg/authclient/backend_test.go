package authclient

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// stubBackend is a scriptable CredentialBackend for unit tests.
type stubBackend struct {
	loginFn   func(ctx context.Context, username, password string) (Session, error)
	refreshFn func(ctx context.Context, cur Session) (Session, error)
	verifyFn  func(ctx context.Context, cur Session) bool
	logoutFn  func(ctx context.Context, cur Session) error
	changeFn  func(ctx context.Context, cur Session, current, newPassword string) error
}

func (s *stubBackend) Login(ctx context.Context, username, password string) (Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubBackend) Refresh(ctx context.Context, cur Session) (Session, error) {
	if s.refreshFn == nil {
		return cur, nil
	}
	return s.refreshFn(ctx, cur)
}

func (s *stubBackend) Verify(ctx context.Context, cur Session) bool {
	if s.verifyFn == nil {
		return true
	}
	return s.verifyFn(ctx, cur)
}

func (s *stubBackend) Logout(ctx context.Context, cur Session) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, cur)
}

func (s *stubBackend) ChangePassword(ctx context.Context, cur Session, current, newPassword string) error {
	if s.changeFn == nil {
		return nil
	}
	return s.changeFn(ctx, cur, current, newPassword)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession(issuedAt time.Time) Session {
	return Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User: User{
			ID:       "42",
			Username: "reportes.bogota",
			FullName: "Coordinación Bogotá",
			Role:     RoleFormUser,
			Area:     "Administrativo Bogotá",
		},
		IssuedAt: issuedAt,
	}
}
