package authclient

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	issued := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	want := testSession(issued)
	require.NoError(t, store.Save(want))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want.AccessToken, got.AccessToken)
	require.Equal(t, want.RefreshToken, got.RefreshToken)
	require.Equal(t, want.User, got.User)
	require.True(t, want.IssuedAt.Equal(got.IssuedAt))
	require.False(t, got.Local)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	first := testSession(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(first))

	second := Session{
		AccessToken: "local-abc",
		User:        User{ID: "1", Username: "admin.general", Role: RoleAdminUser},
		IssuedAt:    time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		Local:       true,
	}
	require.NoError(t, store.Save(second))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "local-abc", got.AccessToken)
	require.Empty(t, got.RefreshToken, "replaced session must not inherit the old refresh token")
	require.Equal(t, "admin.general", got.User.Username)
	require.True(t, got.Local)
}

func TestSQLiteStoreClear(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	// Clearing an empty store is a no-op.
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save(testSession(time.Now())))
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)

	want := testSession(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(want))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want.AccessToken, got.AccessToken)
	require.Equal(t, want.User, got.User)
}
