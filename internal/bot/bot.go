// Package bot contains the Discord-facing layer: the gateway client, the
// message dispatcher, the command surface, and outbound notifications.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	disgobot "github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"github.com/bmrdev/editing-helper/internal/ai"
	"github.com/bmrdev/editing-helper/internal/conversation"
	"github.com/bmrdev/editing-helper/internal/moderation"
	"github.com/bmrdev/editing-helper/internal/security"
	"github.com/bmrdev/editing-helper/internal/setup/config"
	"github.com/bmrdev/editing-helper/internal/storage"
	"github.com/bmrdev/editing-helper/internal/worker"
)

// Bot owns the Discord client and every component hanging off it. It wires
// the moderation pipeline, the tutorial flow, and the security monitors to
// their gateway events.
type Bot struct {
	cfg         *config.Config
	client      disgobot.Client
	dispatcher  *Dispatcher
	notifier    *Notifier
	raidMonitor *security.RaidMonitor
	inviters    *storage.Inviters
	reminders   *worker.Reminders
	presence    *worker.Presence
	logger      *zap.Logger
}

// New builds the Discord client and all of its dependent components. The
// gateway stays closed until Start is called.
func New(
	cfg *config.Config,
	genaiClient *genai.Client,
	inviters *storage.Inviters,
	logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		cfg:      cfg,
		inviters: inviters,
		logger:   logger.Named("bot"),
	}

	client, err := disgo.New(cfg.Bot.Token,
		disgobot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentGuildMembers,
				gateway.IntentGuildWebhooks,
				gateway.IntentDirectMessages,
				gateway.IntentMessageContent,
			),
		),
		disgobot.WithEventListeners(&events.ListenerAdapter{
			OnReady:               b.onReady,
			OnMessageCreate:       b.onMessageCreate,
			OnGuildMemberJoin:     b.onGuildMemberJoin,
			OnGuildMemberLeave:    b.onGuildMemberLeave,
			OnGuildJoin:           b.onGuildJoin,
			OnGuildLeave:          b.onGuildLeave,
			OnGuildWebhooksUpdate: b.onWebhooksUpdate,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	b.client = client

	notifier := NewNotifier(client.Rest(), snowflake.ID(cfg.Bot.LogChannelID), logger)
	authorizer := security.NewAuthorizer(client.Rest(), inviters, cfg.Bot.OwnerMarker, logger)

	histories := conversation.NewHistories()
	flows := conversation.NewFlows()
	escalator := moderation.NewEscalator(
		time.Duration(cfg.Moderation.WarningResetSeconds)*time.Second,
		time.Duration(cfg.Moderation.MuteHours)*time.Hour,
	)

	generator := ai.NewGenerator(genaiClient, &cfg.GeminiAI, histories, authorizer.IsCreator, logger)

	reminders := worker.NewReminders(func(userID uint64, text string) {
		notifier.SendDM(snowflake.ID(userID), "⏰ **REMINDER**: "+text)
	}, logger)

	commands := NewCommands(&cfg.Bot, client.Rest(), notifier, authorizer, reminders, logger)

	b.notifier = notifier
	b.reminders = reminders
	b.dispatcher = NewDispatcher(cfg, client.ApplicationID(), notifier, generator, flows, escalator, authorizer, commands, logger)
	b.raidMonitor = security.NewRaidMonitor(
		cfg.Security.RaidJoinThreshold,
		time.Duration(cfg.Security.RaidWindowSeconds)*time.Second,
		time.Duration(cfg.Security.JoinRetentionSeconds)*time.Second,
		time.Duration(cfg.Security.MinAccountAgeDays)*24*time.Hour,
	)
	b.presence = worker.NewPresence(client, logger)

	return b, nil
}

// Start opens the gateway connection and begins the presence rotation.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	return b.presence.Start()
}

// Close shuts down the gateway connection and cancels pending reminders.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")
	b.presence.Stop()
	b.reminders.Stop()
	b.client.Close(context.Background())
}

func (b *Bot) onReady(event *events.Ready) {
	b.logger.Info("Bot connected",
		zap.String("username", event.User.Username),
		zap.Uint64("application_id", uint64(b.client.ApplicationID())))

	if b.cfg.Bot.AutoModGuildID != 0 {
		go b.ensureAutoModRule(snowflake.ID(b.cfg.Bot.AutoModGuildID))
	}
}

// ensureAutoModRule installs a server-side keyword rule so invite links are
// blocked even while the bot is offline. Failures are tolerated; the message
// pipeline still catches invites itself.
func (b *Bot) ensureAutoModRule(guildID snowflake.ID) {
	_, err := b.client.Rest().CreateAutoModerationRule(guildID, discord.AutoModerationRuleCreate{
		Name:        "Block invite links",
		EventType:   discord.AutoModerationEventTypeMessageSend,
		TriggerType: discord.AutoModerationTriggerTypeKeyword,
		TriggerMetadata: &discord.AutoModerationTriggerMetadata{
			KeywordFilter: []string{"*discord.gg/*", "*discord.com/invite/*", "*discordapp.com/invite/*"},
		},
		Actions: []discord.AutoModerationAction{
			{Type: discord.AutoModerationActionTypeBlockMessage},
		},
	})
	if err != nil {
		b.logger.Warn("Failed to create automod rule",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Error(err))
		return
	}
	b.logger.Info("AutoMod invite rule installed", zap.Uint64("guild_id", uint64(guildID)))
}

// runDetached runs an event handler body on its own goroutine. disgo
// dispatches events serially, so any handler that makes REST calls would
// otherwise stall delivery of everything behind it.
func (b *Bot) runDetached(handler string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in event handler",
					zap.String("handler", handler),
					zap.Any("panic", r))
			}
		}()
		fn()
	}()
}

// onMessageCreate hands every message to the dispatcher on its own goroutine
// so a slow generation call never blocks the gateway reader.
func (b *Bot) onMessageCreate(event *events.MessageCreate) {
	start := time.Now()
	b.runDetached("message_create", func() {
		defer func() {
			b.logger.Debug("Message handled",
				zap.Uint64("message_id", uint64(event.Message.ID)),
				zap.Duration("duration", time.Since(start)))
		}()

		b.dispatcher.HandleMessage(context.Background(), event)
	})
}

// onGuildMemberJoin runs detached: a join burst is exactly when this fires
// most, and its log-channel sends must not delay the events behind it.
func (b *Bot) onGuildMemberJoin(event *events.GuildMemberJoin) {
	b.runDetached("member_join", func() { b.handleMemberJoin(event) })
}

func (b *Bot) handleMemberJoin(event *events.GuildMemberJoin) {
	user := event.Member.User
	verdict := b.raidMonitor.ObserveJoin(uint64(event.GuildID), user.ID.Time())

	b.logger.Info("Member joined",
		zap.String("username", user.Username),
		zap.Uint64("guild_id", uint64(event.GuildID)),
		zap.Int("joins_in_window", verdict.JoinsInWindow))

	if verdict.Raid {
		b.logger.Warn("Join burst detected",
			zap.Uint64("guild_id", uint64(event.GuildID)),
			zap.Int("joins_in_window", verdict.JoinsInWindow))
		b.notifier.LogActivity("🚨 POTENTIAL RAID DETECTED",
			fmt.Sprintf("%d members joined within the last minute. Consider enabling slowmode or pausing invites.", verdict.JoinsInWindow),
			0xFF0000, map[string]string{
				"Guild ID": fmt.Sprintf("%d", event.GuildID),
				"Joins":    fmt.Sprintf("%d", verdict.JoinsInWindow),
			})
	}

	if verdict.YoungAccount {
		b.notifier.LogActivity("⚠️ New Account Joined",
			fmt.Sprintf("%s joined with an account less than 7 days old.", user.Username),
			0xFFCC00, map[string]string{
				"Account Age": verdict.AccountAge.Round(time.Hour).String(),
				"User ID":     user.ID.String(),
			})
	}
}

func (b *Bot) onGuildMemberLeave(event *events.GuildMemberLeave) {
	b.logger.Info("Member left",
		zap.String("username", event.User.Username),
		zap.Uint64("guild_id", uint64(event.GuildID)))
}

// onGuildJoin records who added the bot so moderation commands can later be
// granted to that person. The audit log names the adder; the guild owner is
// the fallback when the log is unreadable.
func (b *Bot) onGuildJoin(event *events.GuildJoin) {
	b.runDetached("guild_join", func() { b.handleGuildJoin(event) })
}

func (b *Bot) handleGuildJoin(event *events.GuildJoin) {
	guild := event.Guild
	b.logger.Info("Joined guild",
		zap.String("guild_name", guild.Name),
		zap.Uint64("guild_id", uint64(guild.ID)))

	inviterID := guild.OwnerID
	auditLog, err := b.client.Rest().GetAuditLog(guild.ID, 0, discord.AuditLogEventBotAdd, 0, 0, 10)
	if err != nil {
		b.logger.Warn("Failed to read audit log for inviter lookup",
			zap.Uint64("guild_id", uint64(guild.ID)),
			zap.Error(err))
	} else {
		for _, entry := range auditLog.AuditLogEntries {
			if entry.TargetID != nil && *entry.TargetID == b.client.ApplicationID() {
				inviterID = entry.UserID
				break
			}
		}
	}

	b.inviters.Set(uint64(guild.ID), uint64(inviterID))
	b.notifier.LogActivity("📥 Joined Server",
		fmt.Sprintf("Now watching **%s**.", guild.Name),
		0x00CC66, map[string]string{
			"Guild ID": guild.ID.String(),
			"Added By": fmt.Sprintf("<@%d>", inviterID),
		})
}

func (b *Bot) onGuildLeave(event *events.GuildLeave) {
	b.runDetached("guild_leave", func() {
		b.logger.Info("Left guild", zap.Uint64("guild_id", uint64(event.GuildID)))

		b.inviters.Delete(uint64(event.GuildID))
		b.notifier.LogActivity("📤 Left Server",
			fmt.Sprintf("Removed from guild %d.", event.GuildID),
			0x999999, nil)
	})
}

// onWebhooksUpdate only logs. Webhook changes are a common persistence trick
// after a server compromise, so the trail matters even without enforcement.
func (b *Bot) onWebhooksUpdate(event *events.WebhooksUpdate) {
	b.logger.Warn("Webhook configuration changed",
		zap.Uint64("channel_id", uint64(event.ChannelID)))
}
