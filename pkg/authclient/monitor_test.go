package authclient

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonitorTicks(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	m := newMonitor(func() { ticks.Add(1) }, 5*time.Millisecond)

	m.Start()
	require.True(t, m.Running())

	require.Eventually(t, func() bool {
		return ticks.Load() >= 2
	}, time.Second, time.Millisecond)

	m.Stop()
	require.False(t, m.Running())
}

func TestMonitorStopIdempotent(t *testing.T) {
	t.Parallel()

	m := newMonitor(func() {}, 5*time.Millisecond)

	// Stopping before the first start is a no-op.
	m.Stop()

	m.Start()
	m.Stop()
	m.Stop()
	require.False(t, m.Running())
}

func TestMonitorStopHaltsTicks(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	m := newMonitor(func() { ticks.Add(1) }, 5*time.Millisecond)

	m.Start()
	require.Eventually(t, func() bool {
		return ticks.Load() >= 1
	}, time.Second, time.Millisecond)
	m.Stop()

	// Allow any in-flight tick to drain, then confirm the counter is still.
	time.Sleep(20 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, settled, ticks.Load())
}

func TestMonitorRestart(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	m := newMonitor(func() { ticks.Add(1) }, 5*time.Millisecond)

	m.Start()
	m.Start() // second start is a no-op
	m.Stop()

	// A stopped monitor can be started again for the next session.
	before := ticks.Load()
	m.Start()
	require.Eventually(t, func() bool {
		return ticks.Load() > before
	}, time.Second, time.Millisecond)
	m.Stop()
}
