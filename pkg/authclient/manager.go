package authclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the session lifecycle state. There is exactly one per Manager and
// it only ever changes through an explicit transition.
type State int

const (
	// StateUnauthenticated is the initial state and the result of logout or
	// a failed login.
	StateUnauthenticated State = iota

	// StateAuthenticating is the window between login start and the
	// backend's answer.
	StateAuthenticating

	// StateAuthenticated means a session exists and has not been torn down.
	StateAuthenticated

	// StateExpired is functionally unauthenticated but carries the "your
	// session timed out" message until the next login attempt.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// restoreTimeout bounds the remote verify during bootstrap restore so
// application start never hangs on a dead network.
const restoreTimeout = 10 * time.Second

// Manager is the session state container. All transitions are serialized
// under one mutex: a login response, a monitor tick and a logout arriving
// together are applied one after another, never merged. Collaborators read
// state through the gate predicates; nobody mutates it directly.
type Manager struct {
	client *Client
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	user       User
	lastErr    error
	restoring  bool
	refreshing bool
	monitor    *Monitor

	// seams for tests
	now             func() time.Time
	monitorInterval time.Duration
}

// NewManager creates a Manager in StateUnauthenticated. A nil logger falls
// back to slog.Default.
func NewManager(client *Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:          client,
		logger:          logger,
		state:           StateUnauthenticated,
		now:             time.Now,
		monitorInterval: MonitorInterval,
	}
}

// Client returns the underlying credential exchange client.
func (m *Manager) Client() *Client { return m.client }

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the error recorded by the last failed transition, for the UI
// error banner. Cleared by ClearError and by any successful login.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// ClearError dismisses the recorded error without touching the state.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
}

// CurrentUser returns the identity snapshot of the authenticated user.
func (m *Manager) CurrentUser() (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return User{}, false
	}
	return m.user, true
}

// Login runs the full login transition: authenticating, then authenticated
// or back to unauthenticated with the error recorded. Only one login may be
// in flight at a time.
func (m *Manager) Login(ctx context.Context, username, password string) (User, error) {
	m.mu.Lock()
	if m.state == StateAuthenticating {
		m.mu.Unlock()
		return User{}, fmt.Errorf("login already in progress")
	}
	m.state = StateAuthenticating
	m.lastErr = nil
	m.mu.Unlock()

	user, err := m.client.Login(ctx, username, password)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.state = StateUnauthenticated
		m.user = User{}
		m.lastErr = err
		return User{}, err
	}

	m.state = StateAuthenticated
	m.user = user
	m.lastErr = nil
	m.startMonitorLocked()
	return user, nil
}

// Logout ends the session: remote notify best effort, local clear
// unconditional, monitor stopped before anything else so a stale tick
// cannot race the teardown.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.stopMonitorLocked()
	m.mu.Unlock()

	err := m.client.Logout(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateUnauthenticated
	m.user = User{}
	m.lastErr = nil
	return err
}

// ForceLogout tears the session down and lands in StateExpired, preserving
// the "session timed out" message for the UI.
func (m *Manager) ForceLogout(ctx context.Context) {
	m.mu.Lock()
	m.stopMonitorLocked()
	m.mu.Unlock()

	if err := m.client.Logout(ctx); err != nil {
		m.logger.Warn("forced logout cleanup", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateExpired
	m.user = User{}
	m.lastErr = ErrSessionExpired
}

// ExtendSession refreshes the session. On success the store is re-stamped
// and the state stays authenticated; on failure the session is already gone
// (the client fails closed) and the state follows it to expired.
func (m *Manager) ExtendSession(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return fmt.Errorf("extend session: %w", ErrUnauthenticated)
	}
	// While the refresh is in flight the monitor must not trip expiry on a
	// session that is being legitimately renewed.
	m.refreshing = true
	m.mu.Unlock()

	_, err := m.client.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshing = false

	if err != nil {
		m.stopMonitorLocked()
		m.state = StateExpired
		m.user = User{}
		m.lastErr = ErrSessionExpired
		return err
	}
	return nil
}

// Restore attempts the application-start bootstrap: load a persisted
// session, verify it, and enter StateAuthenticated without prompting for
// credentials. Any doubt — empty store, aged-out session, failed verify,
// dead network — clears the store and settles in StateUnauthenticated.
// The remote verify is bounded by restoreTimeout so Restore never blocks
// indefinitely.
func (m *Manager) Restore(ctx context.Context) bool {
	m.mu.Lock()
	if m.state == StateAuthenticated {
		m.mu.Unlock()
		return true
	}
	m.restoring = true
	m.mu.Unlock()

	restored := m.restore(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.restoring = false
	if restored != nil {
		m.state = StateAuthenticated
		m.user = *restored
		m.lastErr = nil
		m.startMonitorLocked()
		return true
	}
	if m.state == StateAuthenticating {
		// A login raced the bootstrap; leave its transition alone.
		return false
	}
	m.state = StateUnauthenticated
	return false
}

// restore does the store/verify legwork and returns the restored user, or
// nil when the session could not be confirmed.
func (m *Manager) restore(ctx context.Context) *User {
	sess, ok, err := m.client.Store().Load()
	if err != nil {
		m.logger.Warn("session restore: store read failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	if sess.Expired(m.now()) {
		m.logger.Info("session restore: persisted session already expired")
		m.clearStore()
		return nil
	}

	verifyCtx, cancel := context.WithTimeout(ctx, restoreTimeout)
	defer cancel()
	if !m.client.Verify(verifyCtx) {
		m.logger.Info("session restore: verification failed, discarding session")
		m.clearStore()
		return nil
	}

	return &sess.User
}

// checkExpiry is the monitor's tick body. It recomputes expiry from the
// stored timestamp — never from a cached boolean — and trips the expired
// transition when the session has aged out. Ticks that land after a
// transition out of authenticated, or while a refresh is in flight, are
// no-ops.
func (m *Manager) checkExpiry() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticated || m.refreshing {
		return
	}

	sess, ok, err := m.client.Store().Load()
	if err != nil {
		m.logger.Warn("expiry check: store read failed", "error", err)
		return
	}
	if !ok || sess.Expired(m.now()) {
		m.expireLocked()
	}
}

// expireLocked applies the authenticated→expired transition. Caller holds mu.
func (m *Manager) expireLocked() {
	m.stopMonitorLocked()
	m.clearStore()
	m.state = StateExpired
	m.user = User{}
	m.lastErr = ErrSessionExpired
	m.logger.Info("session expired")
}

func (m *Manager) clearStore() {
	if err := m.client.Store().Clear(); err != nil {
		m.logger.Error("session store clear failed", "error", err)
	}
}

func (m *Manager) startMonitorLocked() {
	if m.monitor == nil {
		m.monitor = newMonitor(m.checkExpiry, m.monitorInterval)
	}
	m.monitor.Start()
}

func (m *Manager) stopMonitorLocked() {
	if m.monitor != nil {
		m.monitor.Stop()
	}
}

// Close stops the background monitor. Safe to call more than once and
// whether or not a session is active.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMonitorLocked()
}
