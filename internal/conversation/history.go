package conversation

import (
	"fmt"
	"strings"

	"github.com/bmrdev/editing-helper/internal/state"
)

// maxHistoryEntries bounds the rolling history kept per user. Each chat
// exchange adds two entries, so this keeps the last ten exchanges.
const maxHistoryEntries = 20

// Role marks who said a history line.
type Role string

const (
	RoleUser Role = "User"
	RoleBot  Role = "Bot"
)

// Entry is one line of a user's chat history.
type Entry struct {
	Role Role
	Text string
}

// Histories keeps the rolling per-user chat context included in model
// prompts. Appends are serialized per user, so an exchange's user and bot
// lines always land adjacent.
type Histories struct {
	store *state.Store[uint64, []Entry]
}

// NewHistories creates an empty history tracker.
func NewHistories() *Histories {
	return &Histories{store: state.NewStore[uint64, []Entry]()}
}

// AppendExchange records one user message and the bot's reply, evicting the
// oldest entries once the cap is exceeded.
func (h *Histories) AppendExchange(userID uint64, userText, botText string) {
	h.store.Do(userID, func(entries []Entry, _ bool) ([]Entry, bool) {
		entries = append(entries,
			Entry{Role: RoleUser, Text: userText},
			Entry{Role: RoleBot, Text: botText},
		)
		if len(entries) > maxHistoryEntries {
			entries = entries[len(entries)-maxHistoryEntries:]
		}
		return entries, true
	})
}

// Render formats the user's history as prompt context, oldest first. Returns
// an empty string when there is no history.
func (h *Histories) Render(userID uint64) string {
	entries, exists := h.store.Get(userID)
	if !exists || len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s: %s\n", entry.Role, entry.Text)
	}
	return b.String()
}

// Len reports how many entries the user's history holds.
func (h *Histories) Len(userID uint64) int {
	entries, _ := h.store.Get(userID)
	return len(entries)
}

// Clear drops the user's history.
func (h *Histories) Clear(userID uint64) {
	h.store.Delete(userID)
}
