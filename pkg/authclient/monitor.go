package authclient

import (
	"sync"
	"time"
)

// MonitorInterval is how often the session monitor re-checks expiry while a
// session is authenticated.
const MonitorInterval = 60 * time.Second

// Monitor runs a recurring expiry check while a session is authenticated.
// It owns nothing but the timer: each tick calls back into the Manager,
// which decides whether the session has actually aged out.
//
// Start and Stop are idempotent and may be called in any order; a tick that
// fires after Stop is a no-op, not a crash or a duplicate teardown.
type Monitor struct {
	check    func()
	interval time.Duration

	mu     sync.Mutex
	stopCh chan struct{} // nil when not running
}

func newMonitor(check func(), interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = MonitorInterval
	}
	return &Monitor{check: check, interval: interval}
}

// Start launches the ticker goroutine. Calling Start on a running monitor
// does nothing.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopCh != nil {
		return
	}
	stopCh := make(chan struct{})
	m.stopCh = stopCh

	go m.run(stopCh)
}

// Stop signals the ticker goroutine to exit. It does not wait: the
// goroutine observes the signal on its next select, and any tick it was
// already executing degrades to a no-op inside the Manager. Stopping a
// stopped monitor does nothing.
//
// Stop deliberately avoids blocking because it is called from inside
// Manager transitions — including the expiry transition triggered by the
// monitor's own tick.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopCh == nil {
		return
	}
	close(m.stopCh)
	m.stopCh = nil
}

// Running reports whether the ticker goroutine is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCh != nil
}

func (m *Monitor) run(stopCh chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-stopCh:
			return
		}
	}
}
