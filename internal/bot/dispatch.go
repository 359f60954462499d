package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/bmrdev/editing-helper/internal/ai"
	"github.com/bmrdev/editing-helper/internal/conversation"
	"github.com/bmrdev/editing-helper/internal/moderation"
	"github.com/bmrdev/editing-helper/internal/security"
	"github.com/bmrdev/editing-helper/internal/setup/config"
	"github.com/bmrdev/editing-helper/internal/state"
)

// declineAck is sent when a user turns down the detailed tutorial offer.
const declineAck = "Got it! Let me know if you need help with anything else! 👍"

// Dispatcher routes every incoming message through moderation, the tutorial
// flow, commands, and chat. Each event runs in its own goroutine; all work
// for one author is serialized through the users store so concurrent
// messages cannot interleave their state updates.
type Dispatcher struct {
	cfg        *config.Config
	botID      snowflake.ID
	notifier   *Notifier
	generator  *ai.Generator
	flows      *conversation.Flows
	escalator  *moderation.Escalator
	authorizer *security.Authorizer
	commands   *Commands
	users      *state.Store[uint64, struct{}]
	logger     *zap.Logger
}

// NewDispatcher wires the message pipeline.
func NewDispatcher(
	cfg *config.Config,
	botID snowflake.ID,
	notifier *Notifier,
	generator *ai.Generator,
	flows *conversation.Flows,
	escalator *moderation.Escalator,
	authorizer *security.Authorizer,
	commands *Commands,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		cfg:        cfg,
		botID:      botID,
		notifier:   notifier,
		generator:  generator,
		flows:      flows,
		escalator:  escalator,
		authorizer: authorizer,
		commands:   commands,
		users:      state.NewStore[uint64, struct{}](),
		logger:     logger.Named("dispatcher"),
	}
}

// HandleMessage processes one MessageCreate event.
func (d *Dispatcher) HandleMessage(ctx context.Context, event *events.MessageCreate) {
	msg := event.Message
	if msg.Author.Bot || msg.Author.ID == d.botID {
		return
	}

	// All handling for one author runs under their key so a burst of
	// messages cannot race the flow, history, or warning state.
	d.users.Do(uint64(msg.Author.ID), func(struct{}, bool) (struct{}, bool) {
		d.process(ctx, event)
		return struct{}{}, false
	})
}

func (d *Dispatcher) process(ctx context.Context, event *events.MessageCreate) {
	msg := event.Message
	userID := uint64(msg.Author.ID)
	isDM := event.GuildID == nil

	// A pending tutorial flow consumes whatever the user says next, even
	// text that looks like a command.
	if d.flows.Phase(userID) != conversation.PhaseIdle {
		directive := d.flows.Advance(userID, msg.Content)
		d.handleDirective(ctx, event, directive)
		return
	}

	if !isDM && !d.isPrivileged(event) {
		if d.moderate(ctx, event) {
			return
		}
	}

	addressed := isDM || d.isMentioned(msg) || d.isReplyToBot(msg)

	if strings.HasPrefix(msg.Content, d.cfg.Bot.Prefix) {
		d.commands.Handle(ctx, event)
		return
	}

	if !addressed {
		return
	}

	d.chat(ctx, event)
}

// moderate runs the guild moderation checks in order. Returns true when the
// message was consumed by an enforcement action.
func (d *Dispatcher) moderate(ctx context.Context, event *events.MessageCreate) bool {
	msg := event.Message
	guildID := *event.GuildID

	if hit, term := moderation.DetectProfanity(msg.Content); hit {
		d.logger.Info("Profanity removed",
			zap.String("user", msg.Author.Username),
			zap.String("term", term))
		d.enforceImmediate(guildID, event,
			fmt.Sprintf("⚠️ %s - Your message was removed for containing inappropriate language. You have been muted for 24 hours.", mention(msg.Author.ID)),
			"🔇 You've been **muted for 24 hours** for using inappropriate language. Please follow server rules.",
			fmt.Sprintf("Profanity detected: %s", term))
		return true
	}

	if d.moderateImages(ctx, guildID, event) {
		return true
	}

	if spam, reason := moderation.DetectSpam(msg.Content); spam {
		d.enforceSpam(guildID, event, reason)
		return true
	}

	if moderation.DetectInviteLink(msg.Content) {
		d.logger.Info("Invite link removed", zap.String("user", msg.Author.Username))
		d.notifier.Delete(msg.ChannelID, msg.ID, "invite link")
		d.notifier.Send(msg.ChannelID,
			fmt.Sprintf("🔒 %s - Posting invite links is not allowed in this server.", mention(msg.Author.ID)))
		return true
	}

	return false
}

// moderateImages screens image attachments with the vision model and applies
// the immediate policy when one is flagged.
func (d *Dispatcher) moderateImages(ctx context.Context, guildID snowflake.ID, event *events.MessageCreate) bool {
	msg := event.Message
	for _, attachment := range msg.Attachments {
		if !ai.IsImageAttachment(attachment.Filename) {
			continue
		}

		data, err := ai.DownloadAttachment(ctx, attachment.URL)
		if err != nil {
			d.logger.Warn("Failed to download attachment for screening",
				zap.String("filename", attachment.Filename),
				zap.Error(err))
			continue
		}

		flagged, reason := d.generator.ModerateImage(ctx, data)
		if !flagged {
			continue
		}

		d.logger.Info("Inappropriate image removed",
			zap.String("user", msg.Author.Username),
			zap.String("reason", reason))
		d.enforceImmediate(guildID, event,
			fmt.Sprintf("🚫 %s - Your image was removed for containing inappropriate content. You have been muted for 24 hours.", mention(msg.Author.ID)),
			"🔇 You've been **muted for 24 hours** for posting inappropriate images. Please follow server rules.",
			"Posted inappropriate image")
		return true
	}
	return false
}

// enforceImmediate applies the single-offence policy: delete, notice, DM,
// 24 hour mute.
func (d *Dispatcher) enforceImmediate(guildID snowflake.ID, event *events.MessageCreate, channelNotice, dmNotice, reason string) {
	msg := event.Message
	d.notifier.Enforce(msg.ChannelID, msg.ID, msg.Author.ID, channelNotice, dmNotice)
	_ = d.notifier.Timeout(guildID, msg.Author.ID, d.muteDuration(), reason)
}

// enforceSpam deletes the message and walks the escalation ladder.
func (d *Dispatcher) enforceSpam(guildID snowflake.ID, event *events.MessageCreate, reason string) {
	msg := event.Message
	d.logger.Info("Spam removed",
		zap.String("user", msg.Author.Username),
		zap.String("reason", reason))

	action := d.escalator.OnViolation(uint64(msg.Author.ID))

	switch action.Kind {
	case moderation.ActionWarnFirst:
		d.notifier.Enforce(msg.ChannelID, msg.ID, msg.Author.ID,
			fmt.Sprintf("⚠️ %s - First warning: Stop spamming! (%s)", mention(msg.Author.ID), reason),
			fmt.Sprintf("⚠️ **First warning**: Stop spamming! (%s)", reason))
	case moderation.ActionWarnSecond:
		d.notifier.Enforce(msg.ChannelID, msg.ID, msg.Author.ID,
			fmt.Sprintf("⚠️⚠️ %s - Second warning: One more and you'll be muted!", mention(msg.Author.ID)),
			"⚠️⚠️ **Second warning**: One more spam message and you'll be muted for 24 hours!")
	case moderation.ActionMute:
		d.notifier.Enforce(msg.ChannelID, msg.ID, msg.Author.ID,
			fmt.Sprintf("🔇 %s has been **muted for 24 hours** after 3 spam warnings. Warn count reset.", mention(msg.Author.ID)),
			"🔇 You've been **muted for 24 hours** after 3 spam warnings. Please follow server rules.")
		_ = d.notifier.Timeout(guildID, msg.Author.ID, action.MuteFor, "Auto-muted after 3 spam warnings")
	}
}

// chat routes an addressed message to the right generation mode.
func (d *Dispatcher) chat(ctx context.Context, event *events.MessageCreate) {
	msg := event.Message
	userID := uint64(msg.Author.ID)
	prompt := d.stripMention(msg.Content)

	// Editing help opens the tutorial flow instead of answering directly
	if moderation.IsEditingHelpRequest(prompt) {
		directive := d.flows.Advance(userID, prompt)
		d.handleDirective(ctx, event, directive)
		return
	}

	var req ai.Request
	switch {
	case d.firstVideoAttachment(msg) != nil:
		attachment := d.firstVideoAttachment(msg)
		data, err := ai.DownloadAttachment(ctx, attachment.URL)
		if err != nil {
			d.logger.Warn("Failed to download video",
				zap.String("filename", attachment.Filename),
				zap.Error(err))
			d.respond(event, "❌ I couldn't download that video. Please try again.")
			return
		}
		req = ai.Request{
			Mode:     ai.ModeVideo,
			UserID:   userID,
			Username: msg.Author.Username,
			Text:     prompt,
			Media:    data,
			Filename: attachment.Filename,
		}

	case d.hasMovAttachment(msg):
		d.respond(event, "❌ MOV files are not supported. Please use MP4, AVI, MKV, WebM, or other video formats.")
		return

	case d.firstImageAttachment(msg) != nil:
		attachment := d.firstImageAttachment(msg)
		data, err := ai.DownloadAttachment(ctx, attachment.URL)
		if err != nil {
			d.logger.Warn("Failed to download image",
				zap.String("filename", attachment.Filename),
				zap.Error(err))
			d.respond(event, "❌ I couldn't download that image. Please try again.")
			return
		}
		req = ai.Request{
			Mode:     ai.ModeVision,
			UserID:   userID,
			Username: msg.Author.Username,
			Text:     prompt,
			Media:    data,
		}

	default:
		if prompt == "" {
			return
		}
		req = ai.Request{
			Mode:     ai.ModeChat,
			UserID:   userID,
			Username: msg.Author.Username,
			Text:     prompt,
		}
	}

	d.notifier.Typing(msg.ChannelID)
	d.respond(event, d.generator.Respond(ctx, req))
}

// handleDirective turns a tutorial flow decision into a reply.
func (d *Dispatcher) handleDirective(ctx context.Context, event *events.MessageCreate, directive conversation.Directive) {
	msg := event.Message

	switch directive.Kind {
	case conversation.DirectiveAskSoftware:
		d.respond(event, ai.AskSoftwareQuestion())

	case conversation.DirectiveBriefTutorial:
		d.notifier.Typing(msg.ChannelID)
		d.respond(event, d.generator.Respond(ctx, ai.Request{
			Mode:     ai.ModeTutorialBrief,
			UserID:   uint64(msg.Author.ID),
			Username: msg.Author.Username,
			Text:     directive.Question,
			Software: directive.Software,
		}))

	case conversation.DirectiveDetailedTutorial:
		d.notifier.Typing(msg.ChannelID)
		d.respond(event, d.generator.Respond(ctx, ai.Request{
			Mode:     ai.ModeTutorialDetailed,
			UserID:   uint64(msg.Author.ID),
			Username: msg.Author.Username,
			Text:     directive.Question,
			Software: directive.Software,
		}))

	default:
		// The flow consumed the message by declining the detail offer
		d.respond(event, declineAck)
	}
}

// respond replies in guilds and sends plainly in DMs.
func (d *Dispatcher) respond(event *events.MessageCreate, content string) {
	if event.GuildID == nil {
		d.notifier.SendChunked(event.Message.ChannelID, content)
		return
	}
	d.notifier.Reply(event.Message.ChannelID, event.Message.ID, content)
}

func (d *Dispatcher) isPrivileged(event *events.MessageCreate) bool {
	msg := event.Message
	if d.authorizer.IsCreator(msg.Author.Username) {
		return true
	}

	var roleIDs []snowflake.ID
	if msg.Member != nil {
		roleIDs = msg.Member.RoleIDs
	}
	return d.authorizer.IsPrivileged(*event.GuildID, msg.Author.ID, msg.Author.Username, roleIDs)
}

func (d *Dispatcher) isMentioned(msg discord.Message) bool {
	for _, user := range msg.Mentions {
		if user.ID == d.botID {
			return true
		}
	}
	return false
}

func (d *Dispatcher) isReplyToBot(msg discord.Message) bool {
	return msg.ReferencedMessage != nil && msg.ReferencedMessage.Author.ID == d.botID
}

func (d *Dispatcher) stripMention(content string) string {
	content = strings.ReplaceAll(content, fmt.Sprintf("<@%d>", d.botID), "")
	content = strings.ReplaceAll(content, fmt.Sprintf("<@!%d>", d.botID), "")
	return strings.TrimSpace(content)
}

func (d *Dispatcher) muteDuration() time.Duration {
	return time.Duration(d.cfg.Moderation.MuteHours) * time.Hour
}

func (d *Dispatcher) firstImageAttachment(msg discord.Message) *discord.Attachment {
	for i := range msg.Attachments {
		if ai.IsImageAttachment(msg.Attachments[i].Filename) {
			return &msg.Attachments[i]
		}
	}
	return nil
}

func (d *Dispatcher) firstVideoAttachment(msg discord.Message) *discord.Attachment {
	for i := range msg.Attachments {
		if ai.IsVideoAttachment(msg.Attachments[i].Filename) {
			return &msg.Attachments[i]
		}
	}
	return nil
}

func (d *Dispatcher) hasMovAttachment(msg discord.Message) bool {
	for _, attachment := range msg.Attachments {
		if ai.IsMovAttachment(attachment.Filename) {
			return true
		}
	}
	return false
}
