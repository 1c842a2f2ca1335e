package authclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source shared between a Manager, its Client
// and the stub backend.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newTestManager wires a Manager over a stub backend and the given store,
// all on one fake clock. The backend's login succeeds by default; tests
// override its funcs to script other behaviors.
func newTestManager(t *testing.T, store SessionStore) (*Manager, *stubBackend, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	backend := &stubBackend{
		loginFn: func(_ context.Context, username, _ string) (Session, error) {
			sess := testSession(clock.Now())
			sess.User.Username = username
			return sess, nil
		},
	}

	client := NewClient(backend, store, discardLogger())
	client.now = clock.Now

	m := NewManager(client, discardLogger())
	m.now = clock.Now
	t.Cleanup(m.Close)
	return m, backend, clock
}

func TestManagerLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		m, _, _ := newTestManager(t, NewMemoryStore())
		require.Equal(t, StateUnauthenticated, m.State())

		user, err := m.Login(ctx, "reportes.bogota", "pw")
		require.NoError(t, err)
		require.Equal(t, "reportes.bogota", user.Username)
		require.Equal(t, StateAuthenticated, m.State())

		got, ok := m.CurrentUser()
		require.True(t, ok)
		require.Equal(t, user, got)
		require.NoError(t, m.Err())
	})

	t.Run("failure records the error", func(t *testing.T) {
		t.Parallel()

		m, backend, _ := newTestManager(t, NewMemoryStore())
		backend.loginFn = func(context.Context, string, string) (Session, error) {
			return Session{}, ErrInvalidCredentials
		}

		_, err := m.Login(ctx, "reportes.bogota", "bad")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.Equal(t, StateUnauthenticated, m.State())
		require.ErrorIs(t, m.Err(), ErrInvalidCredentials)

		_, ok := m.CurrentUser()
		require.False(t, ok)

		m.ClearError()
		require.NoError(t, m.Err())
	})

	t.Run("success clears a prior error", func(t *testing.T) {
		t.Parallel()

		m, backend, _ := newTestManager(t, NewMemoryStore())
		good := backend.loginFn

		backend.loginFn = func(context.Context, string, string) (Session, error) {
			return Session{}, ErrInvalidCredentials
		}
		_, err := m.Login(ctx, "reportes.bogota", "bad")
		require.Error(t, err)

		backend.loginFn = good
		_, err = m.Login(ctx, "reportes.bogota", "pw")
		require.NoError(t, err)
		require.NoError(t, m.Err())
		require.Equal(t, StateAuthenticated, m.State())
	})
}

func TestManagerLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	m, _, _ := newTestManager(t, store)

	_, err := m.Login(ctx, "reportes.bogota", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	require.Equal(t, StateUnauthenticated, m.State())

	_, ok, _ := store.Load()
	require.False(t, ok, "logout must clear the persisted session")

	// Logging out twice is harmless.
	require.NoError(t, m.Logout(ctx))
	require.Equal(t, StateUnauthenticated, m.State())
}

func TestManagerForceLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	m, _, _ := newTestManager(t, store)

	_, err := m.Login(ctx, "reportes.bogota", "pw")
	require.NoError(t, err)

	m.ForceLogout(ctx)
	require.Equal(t, StateExpired, m.State())
	require.ErrorIs(t, m.Err(), ErrSessionExpired)

	_, ok, _ := store.Load()
	require.False(t, ok)
}

func TestManagerExtendSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		m, _, _ := newTestManager(t, NewMemoryStore())
		require.ErrorIs(t, m.ExtendSession(ctx), ErrUnauthenticated)
	})

	t.Run("success restamps the stored session", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		m, backend, clock := newTestManager(t, store)
		backend.refreshFn = func(_ context.Context, cur Session) (Session, error) {
			return cur.restamp(clock.Now()), nil
		}

		_, err := m.Login(ctx, "reportes.bogota", "pw")
		require.NoError(t, err)

		clock.Advance(7 * time.Hour)
		require.NoError(t, m.ExtendSession(ctx))
		require.Equal(t, StateAuthenticated, m.State())

		sess, ok, _ := store.Load()
		require.True(t, ok)
		require.Equal(t, clock.Now(), sess.IssuedAt)
		require.True(t, m.IsAuthenticated())
	})

	t.Run("failure lands in expired", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		m, backend, _ := newTestManager(t, store)
		backend.refreshFn = func(context.Context, Session) (Session, error) {
			return Session{}, ErrSessionExpired
		}

		_, err := m.Login(ctx, "reportes.bogota", "pw")
		require.NoError(t, err)

		require.ErrorIs(t, m.ExtendSession(ctx), ErrSessionExpired)
		require.Equal(t, StateExpired, m.State())
		require.ErrorIs(t, m.Err(), ErrSessionExpired)

		_, ok, _ := store.Load()
		require.False(t, ok, "failed refresh must not leave a session behind")
	})
}

func TestManagerRestore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		m, _, _ := newTestManager(t, NewMemoryStore())
		require.False(t, m.Restore(ctx))
		require.Equal(t, StateUnauthenticated, m.State())
	})

	t.Run("valid persisted session", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		m, _, clock := newTestManager(t, store)
		require.NoError(t, store.Save(testSession(clock.Now().Add(-time.Hour))))

		require.True(t, m.Restore(ctx))
		require.Equal(t, StateAuthenticated, m.State())

		user, ok := m.CurrentUser()
		require.True(t, ok)
		require.Equal(t, "reportes.bogota", user.Username)
	})

	t.Run("aged out session is discarded", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		m, _, clock := newTestManager(t, store)
		require.NoError(t, store.Save(testSession(clock.Now().Add(-SessionDuration))))

		require.False(t, m.Restore(ctx))
		require.Equal(t, StateUnauthenticated, m.State())

		_, ok, _ := store.Load()
		require.False(t, ok, "expired session must be purged on restore")
	})

	t.Run("failed verification is discarded", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		m, backend, clock := newTestManager(t, store)
		backend.verifyFn = func(context.Context, Session) bool { return false }
		require.NoError(t, store.Save(testSession(clock.Now())))

		require.False(t, m.Restore(ctx))
		require.Equal(t, StateUnauthenticated, m.State())

		_, ok, _ := store.Load()
		require.False(t, ok)
	})

	t.Run("already authenticated is a no-op", func(t *testing.T) {
		t.Parallel()

		m, _, _ := newTestManager(t, NewMemoryStore())
		_, err := m.Login(ctx, "reportes.bogota", "pw")
		require.NoError(t, err)

		require.True(t, m.Restore(ctx))
		require.Equal(t, StateAuthenticated, m.State())
	})
}

func TestManagerCheckExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	m, _, clock := newTestManager(t, store)

	_, err := m.Login(ctx, "reportes.bogota", "pw")
	require.NoError(t, err)

	// Mid-session tick changes nothing.
	clock.Advance(4 * time.Hour)
	m.checkExpiry()
	require.Equal(t, StateAuthenticated, m.State())

	// Past the duration the tick trips the transition: state, store and
	// error banner all flip together.
	clock.Advance(4 * time.Hour)
	m.checkExpiry()
	require.Equal(t, StateExpired, m.State())
	require.ErrorIs(t, m.Err(), ErrSessionExpired)

	_, ok, _ := store.Load()
	require.False(t, ok)

	// Stale ticks after the teardown are no-ops.
	m.checkExpiry()
	require.Equal(t, StateExpired, m.State())
}

func TestManagerCheckExpirySkipsInFlightRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	m, backend, clock := newTestManager(t, store)

	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})
	backend.refreshFn = func(_ context.Context, cur Session) (Session, error) {
		close(refreshStarted)
		<-releaseRefresh
		return cur.restamp(clock.Now()), nil
	}

	_, err := m.Login(ctx, "reportes.bogota", "pw")
	require.NoError(t, err)

	extendDone := make(chan error, 1)
	go func() {
		extendDone <- m.ExtendSession(ctx)
	}()
	<-refreshStarted

	// The session ages out while the refresh is still pending. The tick
	// must not tear down a session that is being legitimately renewed.
	clock.Advance(SessionDuration + time.Minute)
	m.checkExpiry()
	require.Equal(t, StateAuthenticated, m.State())

	_, ok, _ := store.Load()
	require.True(t, ok, "tick during refresh must leave the store intact")

	close(releaseRefresh)
	require.NoError(t, <-extendDone)
	require.Equal(t, StateAuthenticated, m.State())

	sess, ok, _ := store.Load()
	require.True(t, ok)
	require.Equal(t, clock.Now(), sess.IssuedAt)
}

func TestManagerCloseIdempotent(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestManager(t, NewMemoryStore())
	_, err := m.Login(context.Background(), "reportes.bogota", "pw")
	require.NoError(t, err)

	m.Close()
	m.Close()
}
