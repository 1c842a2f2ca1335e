package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/dailyops/opsreport/internal/report/store"
	"github.com/dailyops/opsreport/internal/report/store/drivers/sqlite"
	"github.com/dailyops/opsreport/pkg/cryptox"
	"github.com/dailyops/opsreport/pkg/idx"
	"github.com/dailyops/opsreport/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "service.db")
	st, err := sqlite.NewStore("file:" + path)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func newTestAuthService(t *testing.T, st store.Store) *AuthService {
	t.Helper()

	signer, err := jwtx.NewHS256([]byte("test-secret-test-secret"), "opsreport-test")
	require.NoError(t, err)

	return &AuthService{
		Store:      st,
		Signer:     signer,
		Issuer:     "opsreport-test",
		AccessTTL:  8 * time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// createUser persists a user with the given password and returns it.
func createUser(t *testing.T, st store.Store, username, password, role, area string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		FullName:     "Test " + username,
		PasswordHash: hash,
		Role:         role,
		Area:         area,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
