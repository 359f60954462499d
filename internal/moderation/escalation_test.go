package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestEscalator() (*Escalator, *time.Time) {
	e := NewEscalator(5*time.Minute, 24*time.Hour)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }
	return e, &now
}

func TestEscalatorThreeStrikes(t *testing.T) {
	e, now := newTestEscalator()
	const user = uint64(42)

	first := e.OnViolation(user)
	assert.Equal(t, ActionWarnFirst, first.Kind)
	assert.Equal(t, 1, first.Warnings)

	*now = now.Add(30 * time.Second)
	second := e.OnViolation(user)
	assert.Equal(t, ActionWarnSecond, second.Kind)
	assert.Equal(t, 2, second.Warnings)

	*now = now.Add(30 * time.Second)
	third := e.OnViolation(user)
	assert.Equal(t, ActionMute, third.Kind)
	assert.Equal(t, 24*time.Hour, third.MuteFor)

	// The mute resets the count, so a fourth quick violation starts over.
	*now = now.Add(30 * time.Second)
	fourth := e.OnViolation(user)
	assert.Equal(t, ActionWarnFirst, fourth.Kind)
	assert.Equal(t, 1, fourth.Warnings)
}

func TestEscalatorQuietPeriodResets(t *testing.T) {
	e, now := newTestEscalator()
	const user = uint64(7)

	e.OnViolation(user)
	*now = now.Add(time.Minute)
	e.OnViolation(user)
	assert.Equal(t, 2, e.Warnings(user))

	// After the full reset window passes, the next violation is a first
	// warning again.
	*now = now.Add(5 * time.Minute)
	action := e.OnViolation(user)
	assert.Equal(t, ActionWarnFirst, action.Kind)
	assert.Equal(t, 1, e.Warnings(user))
}

func TestEscalatorIndependentUsers(t *testing.T) {
	e, _ := newTestEscalator()

	e.OnViolation(1)
	e.OnViolation(1)
	action := e.OnViolation(2)

	assert.Equal(t, ActionWarnFirst, action.Kind)
	assert.Equal(t, 2, e.Warnings(1))
	assert.Equal(t, 1, e.Warnings(2))
}
