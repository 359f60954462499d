package moderation

import (
	"time"

	"github.com/bmrdev/editing-helper/internal/state"
)

// ActionKind is the enforcement step chosen for a violation.
type ActionKind int

const (
	// ActionWarnFirst is the first warning within the reset window.
	ActionWarnFirst ActionKind = iota
	// ActionWarnSecond is the final warning before a mute.
	ActionWarnSecond
	// ActionMute times the user out and resets their warning count.
	ActionMute
)

// Action describes what the caller must do about a violation.
type Action struct {
	Kind     ActionKind
	Warnings int
	MuteFor  time.Duration
}

// Record tracks a user's standing with the escalation policy.
type Record struct {
	Warnings      int
	LastViolation time.Time
}

// Escalator applies the tiered warning policy. Violations within the reset
// window stack; a quiet period longer than the window starts the user over
// at one warning. The third stacked violation mutes and clears the count.
type Escalator struct {
	records     *state.Store[uint64, Record]
	resetWindow time.Duration
	muteFor     time.Duration
	now         func() time.Time
}

// NewEscalator creates an Escalator with the given reset window and mute
// duration.
func NewEscalator(resetWindow, muteFor time.Duration) *Escalator {
	return &Escalator{
		records:     state.NewStore[uint64, Record](),
		resetWindow: resetWindow,
		muteFor:     muteFor,
		now:         time.Now,
	}
}

// OnViolation records a violation for userID and returns the action to take.
// The read-modify-write runs under the user's lock, so two simultaneous
// violations can never both observe the same warning count.
func (e *Escalator) OnViolation(userID uint64) Action {
	var action Action

	e.records.Do(userID, func(record Record, exists bool) (Record, bool) {
		now := e.now()

		if exists && now.Sub(record.LastViolation) < e.resetWindow {
			record.Warnings++
		} else {
			record.Warnings = 1
		}
		record.LastViolation = now

		switch {
		case record.Warnings >= 3:
			action = Action{Kind: ActionMute, Warnings: record.Warnings, MuteFor: e.muteFor}
			record.Warnings = 0
		case record.Warnings == 2:
			action = Action{Kind: ActionWarnSecond, Warnings: 2}
		default:
			action = Action{Kind: ActionWarnFirst, Warnings: 1}
		}

		return record, true
	})

	return action
}

// Warnings returns the user's current stacked warning count.
func (e *Escalator) Warnings(userID uint64) int {
	record, exists := e.records.Get(userID)
	if !exists {
		return 0
	}
	return record.Warnings
}
