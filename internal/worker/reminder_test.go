package worker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{"30s", 30 * time.Second, true},
		{"5m", 5 * time.Minute, true},
		{"1h", time.Hour, true},
		{"2d", 48 * time.Hour, true},
		{" 10M ", 10 * time.Minute, true},
		{"5", 0, false},
		{"m", 0, false},
		{"0m", 0, false},
		{"-5m", 0, false},
		{"5w", 0, false},
		{"soon", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelay(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrBadDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemindersDeliver(t *testing.T) {
	var mu sync.Mutex
	var delivered []string
	done := make(chan struct{})

	r := NewReminders(func(userID uint64, text string) {
		mu.Lock()
		delivered = append(delivered, text)
		mu.Unlock()
		close(done)
	}, zap.NewNop())
	defer r.Stop()

	reminder := r.Schedule(42, 10*time.Millisecond, "check the render")
	assert.Equal(t, uint64(42), reminder.UserID)
	assert.Equal(t, 1, r.Pending())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reminder never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"check the render"}, delivered)
	assert.Zero(t, r.Pending())
}

func TestRemindersStopCancelsPending(t *testing.T) {
	r := NewReminders(func(uint64, string) {
		t.Error("cancelled reminder fired")
	}, zap.NewNop())

	r.Schedule(1, time.Hour, "never")
	r.Schedule(2, time.Hour, "never either")
	assert.Equal(t, 2, r.Pending())

	r.Stop()
	assert.Zero(t, r.Pending())

	// Give any stray timer a moment to misfire before the test ends
	time.Sleep(20 * time.Millisecond)
}
