package bot

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmrdev/editing-helper/internal/ai"
	"github.com/bmrdev/editing-helper/internal/conversation"
	"github.com/bmrdev/editing-helper/internal/moderation"
	"github.com/bmrdev/editing-helper/internal/security"
	"github.com/bmrdev/editing-helper/internal/setup/config"
	"github.com/bmrdev/editing-helper/internal/storage"
	"github.com/bmrdev/editing-helper/internal/worker"
)

// stubRest records the outbound calls the pipeline makes. Only the methods
// the tests exercise are implemented; anything else panics via the embedded
// nil interface, which doubles as an assertion that no unexpected call runs.
type stubRest struct {
	rest.Rest

	mu       sync.Mutex
	sent     []string
	deleted  int
	timeouts int
}

func (s *stubRest) CreateMessage(_ snowflake.ID, messageCreate discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, messageCreate.Content)
	return &discord.Message{}, nil
}

func (s *stubRest) DeleteMessage(_, _ snowflake.ID, _ ...rest.RequestOpt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted++
	return nil
}

func (s *stubRest) UpdateMember(_, _ snowflake.ID, _ discord.MemberUpdate, _ ...rest.RequestOpt) (*discord.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts++
	return &discord.Member{}, nil
}

func (s *stubRest) SendTyping(_ snowflake.ID, _ ...rest.RequestOpt) error {
	return nil
}

func (s *stubRest) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *stubRest, *conversation.Flows) {
	t.Helper()

	stub := &stubRest{}
	logger := zap.NewNop()

	cfg := &config.Config{}
	cfg.Bot.Prefix = "!"
	cfg.Bot.OwnerMarker = "bmr"
	cfg.Bot.FilesDir = t.TempDir()
	cfg.GeminiAI.MaxConcurrent = 1
	cfg.Moderation.MuteHours = 24

	notifier := NewNotifier(stub, 0, logger)
	inviters, err := storage.LoadInviters(filepath.Join(t.TempDir(), "inviters.json"), logger)
	require.NoError(t, err)
	authorizer := security.NewAuthorizer(stub, inviters, cfg.Bot.OwnerMarker, logger)
	generator := ai.NewGenerator(nil, &cfg.GeminiAI, conversation.NewHistories(), authorizer.IsCreator, logger)
	flows := conversation.NewFlows()
	escalator := moderation.NewEscalator(5*time.Minute, 24*time.Hour)
	reminders := worker.NewReminders(func(uint64, string) {}, logger)
	t.Cleanup(reminders.Stop)
	commands := NewCommands(&cfg.Bot, stub, notifier, authorizer, reminders, logger)

	d := NewDispatcher(cfg, snowflake.ID(999), notifier, generator, flows, escalator, authorizer, commands, logger)
	return d, stub, flows
}

func guildMessage(author discord.User, content string) *events.MessageCreate {
	guildID := snowflake.ID(1)
	return &events.MessageCreate{
		GenericMessage: &events.GenericMessage{
			MessageID: 100,
			ChannelID: 10,
			GuildID:   &guildID,
			Message: discord.Message{
				ID:        100,
				ChannelID: 10,
				Content:   content,
				Author:    author,
			},
		},
	}
}

func dmMessage(author discord.User, content string) *events.MessageCreate {
	return &events.MessageCreate{
		GenericMessage: &events.GenericMessage{
			MessageID: 100,
			ChannelID: 10,
			Message: discord.Message{
				ID:        100,
				ChannelID: 10,
				Content:   content,
				Author:    author,
			},
		},
	}
}

// A privileged author's message skips every moderation check and still
// reaches the command surface, even when the content would otherwise be
// removed and muted on sight.
func TestDispatcherPrivilegedAuthorSkipsModeration(t *testing.T) {
	d, stub, _ := newTestDispatcher(t)
	owner := discord.User{ID: 5, Username: "bmr_dev"}

	profane := "!remind 5m fuck this render"
	hit, _ := moderation.DetectProfanity(profane)
	require.True(t, hit)

	d.HandleMessage(context.Background(), guildMessage(owner, profane))

	assert.Zero(t, stub.deleted)
	assert.Zero(t, stub.timeouts)
	require.Len(t, stub.messages(), 1)
	assert.Contains(t, stub.messages()[0], "Reminder set")
}

// While a tutorial flow is pending, every message from that user belongs to
// the flow, including ones that look like commands.
func TestDispatcherPendingFlowConsumesCommands(t *testing.T) {
	d, stub, flows := newTestDispatcher(t)
	user := discord.User{ID: 7, Username: "editor"}
	userID := uint64(user.ID)

	flows.Advance(userID, "can you help me edit my video")
	flows.Advance(userID, "premiere pro")
	require.Equal(t, conversation.PhaseAwaitingDetail, flows.Phase(userID))

	d.HandleMessage(context.Background(), dmMessage(user, "!files"))

	// Declining the detail offer ends the flow; the file list never sends
	require.Len(t, stub.messages(), 1)
	assert.Equal(t, declineAck, stub.messages()[0])
	assert.Equal(t, conversation.PhaseIdle, flows.Phase(userID))
	assert.Zero(t, stub.deleted)
}

// Messages that neither address the bot nor carry the prefix fall through
// the whole pipeline without side effects.
func TestDispatcherIgnoresUnaddressedMessages(t *testing.T) {
	d, stub, _ := newTestDispatcher(t)
	owner := discord.User{ID: 5, Username: "bmr_dev"}

	d.HandleMessage(context.Background(), guildMessage(owner, "rendering is taking forever today"))

	assert.Empty(t, stub.messages())
	assert.Zero(t, stub.deleted)
	assert.Zero(t, stub.timeouts)
}
