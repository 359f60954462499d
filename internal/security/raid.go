package security

import (
	"time"

	"github.com/bmrdev/editing-helper/internal/state"
)

// RaidVerdict is the monitor's judgement of one join.
type RaidVerdict struct {
	// Raid is set when the join pushed the guild over the burst threshold
	// and no alert fired within the current window already.
	Raid bool
	// JoinsInWindow is the number of joins observed inside the window,
	// including this one.
	JoinsInWindow int
	// YoungAccount is set when the joining account is newer than the
	// minimum age.
	YoungAccount bool
	// AccountAge is how old the joining account is.
	AccountAge time.Duration
}

type guildJoins struct {
	times     []time.Time
	lastAlert time.Time
}

// RaidMonitor watches member joins per guild and flags bursts. A guild that
// trips the threshold alerts once per window rather than once per join.
type RaidMonitor struct {
	joins         *state.Store[uint64, guildJoins]
	threshold     int
	window        time.Duration
	retention     time.Duration
	minAccountAge time.Duration
	now           func() time.Time
}

// NewRaidMonitor creates a monitor that flags threshold joins within window.
// Join timestamps older than retention are pruned on every observation.
func NewRaidMonitor(threshold int, window, retention, minAccountAge time.Duration) *RaidMonitor {
	return &RaidMonitor{
		joins:         state.NewStore[uint64, guildJoins](),
		threshold:     threshold,
		window:        window,
		retention:     retention,
		minAccountAge: minAccountAge,
		now:           time.Now,
	}
}

// ObserveJoin records a member join and returns the verdict for it.
// accountCreated is when the joining account was registered.
func (m *RaidMonitor) ObserveJoin(guildID uint64, accountCreated time.Time) RaidVerdict {
	var verdict RaidVerdict

	m.joins.Do(guildID, func(joins guildJoins, _ bool) (guildJoins, bool) {
		now := m.now()

		kept := joins.times[:0]
		for _, t := range joins.times {
			if now.Sub(t) <= m.retention {
				kept = append(kept, t)
			}
		}
		joins.times = append(kept, now)

		inWindow := 0
		for _, t := range joins.times {
			if now.Sub(t) <= m.window {
				inWindow++
			}
		}
		verdict.JoinsInWindow = inWindow

		if inWindow >= m.threshold && now.Sub(joins.lastAlert) >= m.window {
			verdict.Raid = true
			joins.lastAlert = now
		}

		verdict.AccountAge = now.Sub(accountCreated)
		verdict.YoungAccount = verdict.AccountAge < m.minAccountAge

		return joins, true
	})

	return verdict
}
