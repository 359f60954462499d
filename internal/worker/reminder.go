// Package worker holds the bot's background tasks: presence rotation and
// one-shot reminders.
package worker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBadDuration is returned for delay strings the reminder parser does not
// understand. The caller should show a usage hint.
var ErrBadDuration = errors.New("invalid duration format, use something like 5m, 1h, or 30s")

// Reminder is one scheduled delivery.
type Reminder struct {
	ID     uuid.UUID
	UserID uint64
	Text   string
	DueAt  time.Time
}

// Reminders schedules one-shot deliveries. State is in-memory only;
// restarts drop pending reminders.
type Reminders struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*time.Timer
	deliver func(userID uint64, text string)
	logger  *zap.Logger
}

// NewReminders creates a reminder scheduler. deliver is called on the
// timer's goroutine when a reminder fires.
func NewReminders(deliver func(userID uint64, text string), logger *zap.Logger) *Reminders {
	return &Reminders{
		pending: make(map[uuid.UUID]*time.Timer),
		deliver: deliver,
		logger:  logger.Named("reminders"),
	}
}

// Schedule registers a reminder for userID after delay.
func (r *Reminders) Schedule(userID uint64, delay time.Duration, text string) Reminder {
	reminder := Reminder{
		ID:     uuid.New(),
		UserID: userID,
		Text:   text,
		DueAt:  time.Now().Add(delay),
	}

	r.mu.Lock()
	r.pending[reminder.ID] = time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.pending, reminder.ID)
		r.mu.Unlock()

		r.deliver(userID, text)
		r.logger.Info("Delivered reminder",
			zap.Uint64("user_id", userID),
			zap.String("reminder_id", reminder.ID.String()))
	})
	r.mu.Unlock()

	return reminder
}

// Pending reports how many reminders are waiting to fire.
func (r *Reminders) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Stop cancels all pending reminders.
func (r *Reminders) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, timer := range r.pending {
		timer.Stop()
		delete(r.pending, id)
	}
}

// ParseDelay parses the short reminder syntax: a number followed by s, m,
// h, or d.
func ParseDelay(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, ErrBadDuration
	}

	unit := s[len(s)-1]
	amount, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || amount <= 0 {
		return 0, ErrBadDuration
	}

	switch unit {
	case 's':
		return time.Duration(amount) * time.Second, nil
	case 'm':
		return time.Duration(amount) * time.Minute, nil
	case 'h':
		return time.Duration(amount) * time.Hour, nil
	case 'd':
		return time.Duration(amount) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrBadDuration, string(unit))
	}
}
