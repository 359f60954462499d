package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMonitor() (*RaidMonitor, *time.Time) {
	m := NewRaidMonitor(5, time.Minute, 2*time.Minute, 7*24*time.Hour)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestRaidMonitorBurstAlertsOnce(t *testing.T) {
	m, now := newTestMonitor()
	oldAccount := now.Add(-365 * 24 * time.Hour)

	alerts := 0
	for i := range 6 {
		*now = now.Add(5 * time.Second)
		verdict := m.ObserveJoin(100, oldAccount)
		assert.Equal(t, i+1, verdict.JoinsInWindow)
		if verdict.Raid {
			alerts++
		}
	}

	// Six joins in thirty seconds must produce exactly one alert.
	assert.Equal(t, 1, alerts)
}

func TestRaidMonitorSlowJoinsNeverAlert(t *testing.T) {
	m, now := newTestMonitor()
	oldAccount := now.Add(-365 * 24 * time.Hour)

	for range 10 {
		*now = now.Add(90 * time.Second)
		verdict := m.ObserveJoin(100, oldAccount)
		assert.False(t, verdict.Raid)
	}
}

func TestRaidMonitorAlertsAgainAfterWindow(t *testing.T) {
	m, now := newTestMonitor()
	oldAccount := now.Add(-365 * 24 * time.Hour)

	for range 5 {
		*now = now.Add(time.Second)
		m.ObserveJoin(100, oldAccount)
	}

	// A second burst after the window may alert again.
	*now = now.Add(2 * time.Minute)
	alerts := 0
	for range 5 {
		*now = now.Add(time.Second)
		if m.ObserveJoin(100, oldAccount).Raid {
			alerts++
		}
	}
	assert.Equal(t, 1, alerts)
}

func TestRaidMonitorPrunesOldJoins(t *testing.T) {
	m, now := newTestMonitor()
	oldAccount := now.Add(-365 * 24 * time.Hour)

	for range 4 {
		m.ObserveJoin(100, oldAccount)
	}

	// After the retention period those joins no longer count.
	*now = now.Add(3 * time.Minute)
	verdict := m.ObserveJoin(100, oldAccount)
	assert.Equal(t, 1, verdict.JoinsInWindow)
	assert.False(t, verdict.Raid)
}

func TestRaidMonitorGuildsAreIndependent(t *testing.T) {
	m, now := newTestMonitor()
	oldAccount := now.Add(-365 * 24 * time.Hour)

	for range 4 {
		m.ObserveJoin(1, oldAccount)
	}
	verdict := m.ObserveJoin(2, oldAccount)
	assert.Equal(t, 1, verdict.JoinsInWindow)
	assert.False(t, verdict.Raid)
}

func TestRaidMonitorFlagsYoungAccounts(t *testing.T) {
	m, now := newTestMonitor()

	verdict := m.ObserveJoin(100, now.Add(-24*time.Hour))
	assert.True(t, verdict.YoungAccount)

	verdict = m.ObserveJoin(100, now.Add(-30*24*time.Hour))
	assert.False(t, verdict.YoungAccount)
}
