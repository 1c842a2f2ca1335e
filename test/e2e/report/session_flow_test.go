package report_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dailyops/opsreport/pkg/authclient"
	"github.com/stretchr/testify/require"
)

// newSessionClient wires the full client stack against the given base URL
// with a durable session store at path.
func newSessionClient(t *testing.T, baseURL, path string) (*authclient.Manager, *authclient.SQLiteStore) {
	t.Helper()

	store, err := authclient.OpenSQLiteStore(path)
	require.NoError(t, err)

	api := authclient.NewAPIClient(baseURL)
	backend := authclient.NewFallbackBackend(api, authclient.NewLocalTableBackend())
	client := authclient.NewClient(backend, store, discardLogger())
	return authclient.NewManager(client, discardLogger()), store
}

// TestSessionSurvivesRestart logs in against the live service, tears the
// whole client stack down and rebuilds it over the same session file. The
// rebuilt client must pick the session up without credentials.
func TestSessionSurvivesRestart(t *testing.T) {
	srv := startService(t)
	ctx := context.Background()
	sessionFile := filepath.Join(t.TempDir(), "session.db")

	manager, store := newSessionClient(t, srv.URL, sessionFile)
	user, err := manager.Login(ctx, "admin.general", "admin2024")
	require.NoError(t, err)
	require.Equal(t, authclient.RoleAdminUser, user.Role)

	// Simulate a process exit.
	manager.Close()
	require.NoError(t, store.Close())

	manager, store = newSessionClient(t, srv.URL, sessionFile)
	defer func() {
		manager.Close()
		_ = store.Close()
	}()

	require.True(t, manager.Restore(ctx))
	restored, ok := manager.CurrentUser()
	require.True(t, ok)
	require.Equal(t, user.ID, restored.ID)
	require.True(t, manager.HasAdminAccess())
}

// TestOfflineFallbackLogin stops the service and signs in through the local
// credential table. The offline session must not require the network for
// verification or extension.
func TestOfflineFallbackLogin(t *testing.T) {
	srv := startService(t)
	srv.Close() // service is down from the client's point of view
	ctx := context.Background()

	manager, store := newSessionClient(t, srv.URL, filepath.Join(t.TempDir(), "session.db"))
	defer func() {
		manager.Close()
		_ = store.Close()
	}()

	user, err := manager.Login(ctx, "admin.general", "admin2024")
	require.NoError(t, err)
	require.Equal(t, "admin.general", user.Username)
	require.True(t, manager.IsAuthenticated())

	sess, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, sess.Local)
	require.Empty(t, sess.RefreshToken)

	// Extension re-stamps locally, no network needed.
	require.NoError(t, manager.ExtendSession(ctx))
	require.True(t, manager.IsAuthenticated())

	// Wrong credentials still fail offline.
	_, err = manager.Login(ctx, "admin.general", "wrong")
	require.ErrorIs(t, err, authclient.ErrInvalidCredentials)
}

// TestLogoutClearsDurableSession checks the session file holds nothing a
// later process could resurrect after an explicit sign-out.
func TestLogoutClearsDurableSession(t *testing.T) {
	srv := startService(t)
	ctx := context.Background()
	sessionFile := filepath.Join(t.TempDir(), "session.db")

	manager, store := newSessionClient(t, srv.URL, sessionFile)
	_, err := manager.Login(ctx, "reportes.bogota", "bogota2024")
	require.NoError(t, err)
	require.NoError(t, manager.Logout(ctx))
	manager.Close()
	require.NoError(t, store.Close())

	manager, store = newSessionClient(t, srv.URL, sessionFile)
	defer func() {
		manager.Close()
		_ = store.Close()
	}()
	require.False(t, manager.Restore(ctx))
	require.Equal(t, authclient.StateUnauthenticated, manager.State())
}
