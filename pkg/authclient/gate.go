package authclient

// Decision is the outcome of a route-guard query: what a protected view
// should do right now.
type Decision int

const (
	// DecisionLoading – authentication is still settling (login in flight
	// or bootstrap restore pending); show a loading indicator.
	DecisionLoading Decision = iota

	// DecisionRedirect – no live session; defer to the login redirect.
	DecisionRedirect

	// DecisionDenied – authenticated but the role does not grant the view;
	// show the access-denied panel, not an error toast.
	DecisionDenied

	// DecisionAllow – render the protected content.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirect:
		return "redirect"
	case DecisionDenied:
		return "denied"
	default:
		return "allow"
	}
}

// IsAuthenticated reports whether the state is authenticated AND the stored
// session is still inside its fixed duration. Validity is recomputed from
// the store on every call; nothing is cached between calls.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticated {
		return false
	}

	sess, ok, err := m.client.Store().Load()
	if err != nil || !ok {
		return false
	}
	return !sess.Expired(m.now())
}

// HasAdminAccess reports whether the current user's role grants the admin
// views. The user is re-derived from the store on every call rather than
// read from a stale snapshot. Discovering an expired session here trips the
// forced-logout transition before returning false — the access check
// doubles as a lazy expiry trip-wire.
func (m *Manager) HasAdminAccess() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticated {
		return false
	}

	sess, ok, err := m.client.Store().Load()
	if err != nil {
		m.logger.Warn("admin access check: store read failed", "error", err)
		return false
	}
	if !ok || sess.Expired(m.now()) {
		m.expireLocked()
		return false
	}

	return sess.User.Role.AdminAccess()
}

// Authorize is the route guard: given whether the view requires the admin
// role, it answers what to render. Consulted synchronously at navigation
// time; never cached.
func (m *Manager) Authorize(requireAdmin bool) Decision {
	m.mu.Lock()
	settling := m.restoring || m.state == StateAuthenticating
	m.mu.Unlock()

	if settling {
		return DecisionLoading
	}

	if !m.IsAuthenticated() {
		return DecisionRedirect
	}

	if requireAdmin && !m.HasAdminAccess() {
		// The admin check may itself have tripped expiry; if the session is
		// gone, redirect rather than show the denied panel.
		if !m.IsAuthenticated() {
			return DecisionRedirect
		}
		return DecisionDenied
	}

	return DecisionAllow
}

// SessionInfo summarizes the stored session for UI collaborators (session
// countdowns, the "extend session" banner). Returns nil when no session is
// stored.
func (m *Manager) SessionInfo() *SessionInfo {
	sess, ok, err := m.client.Store().Load()
	if err != nil || !ok {
		return nil
	}

	now := m.now()
	left := sess.ExpiresAt().Sub(now)
	if left < 0 {
		left = 0
	}
	return &SessionInfo{
		StartTime: sess.IssuedAt,
		ExpiresAt: sess.ExpiresAt(),
		TimeLeft:  left,
		IsExpired: sess.Expired(now),
	}
}
