package conversation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoriesAppendAndRender(t *testing.T) {
	h := NewHistories()
	const user = uint64(1)

	assert.Empty(t, h.Render(user))

	h.AppendExchange(user, "hi there", "hello!")
	rendered := h.Render(user)
	assert.Equal(t, "User: hi there\nBot: hello!\n", rendered)
	assert.Equal(t, 2, h.Len(user))
}

func TestHistoriesEvictOldest(t *testing.T) {
	h := NewHistories()
	const user = uint64(2)

	for i := range 15 {
		h.AppendExchange(user, fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	assert.Equal(t, maxHistoryEntries, h.Len(user))

	rendered := h.Render(user)
	assert.NotContains(t, rendered, "question 4")
	assert.Contains(t, rendered, "question 5")
	assert.Contains(t, rendered, "answer 14")

	// The newest exchange stays adjacent at the end.
	assert.True(t, strings.HasSuffix(rendered, "User: question 14\nBot: answer 14\n"))
}

func TestHistoriesClear(t *testing.T) {
	h := NewHistories()
	const user = uint64(3)

	h.AppendExchange(user, "a", "b")
	h.Clear(user)
	assert.Empty(t, h.Render(user))
	assert.Zero(t, h.Len(user))
}

func TestHistoriesIndependentUsers(t *testing.T) {
	h := NewHistories()

	h.AppendExchange(1, "mine", "yours")
	assert.Zero(t, h.Len(2))
}
