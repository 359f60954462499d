package bot

import (
	"bytes"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Notifier performs the outbound side effects of moderation and chat. Every
// send is best-effort: failures are logged and swallowed, because a missing
// permission or a closed DM must never abort the rest of an enforcement
// action.
type Notifier struct {
	rest         rest.Rest
	logChannelID snowflake.ID
	logger       *zap.Logger
}

// NewNotifier creates a Notifier. logChannelID of zero disables activity
// logging.
func NewNotifier(restClient rest.Rest, logChannelID snowflake.ID, logger *zap.Logger) *Notifier {
	return &Notifier{
		rest:         restClient,
		logChannelID: logChannelID,
		logger:       logger.Named("notifier"),
	}
}

// Send posts a plain message to a channel.
func (n *Notifier) Send(channelID snowflake.ID, content string) {
	if _, err := n.rest.CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		Build()); err != nil {
		n.logger.Warn("Failed to send channel message",
			zap.Uint64("channel_id", uint64(channelID)),
			zap.Error(err))
	}
}

// Reply posts a message referencing another message. Long content is split
// into chunks that fit under Discord's message limit.
func (n *Notifier) Reply(channelID, messageID snowflake.ID, content string) {
	for i, chunk := range chunkMessage(content) {
		builder := discord.NewMessageCreateBuilder().SetContent(chunk)
		// Only the first chunk carries the reply reference
		if i == 0 {
			builder.SetMessageReferenceByID(messageID)
		}
		if _, err := n.rest.CreateMessage(channelID, builder.Build()); err != nil {
			n.logger.Warn("Failed to send reply",
				zap.Uint64("channel_id", uint64(channelID)),
				zap.Error(err))
			return
		}
	}
}

// SendChunked posts content to a channel without a reply reference, split
// into limit-sized chunks. Used for DM conversations.
func (n *Notifier) SendChunked(channelID snowflake.ID, content string) {
	for _, chunk := range chunkMessage(content) {
		if _, err := n.rest.CreateMessage(channelID, discord.NewMessageCreateBuilder().
			SetContent(chunk).
			Build()); err != nil {
			n.logger.Warn("Failed to send message",
				zap.Uint64("channel_id", uint64(channelID)),
				zap.Error(err))
			return
		}
	}
}

// SendDM delivers a direct message. Returns false when the DM could not be
// delivered, typically because the user's DMs are closed.
func (n *Notifier) SendDM(userID snowflake.ID, content string) bool {
	channel, err := n.rest.CreateDMChannel(userID)
	if err != nil {
		n.logger.Warn("Failed to open DM channel",
			zap.Uint64("user_id", uint64(userID)),
			zap.Error(err))
		return false
	}

	for _, chunk := range chunkMessage(content) {
		if _, err := n.rest.CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
			SetContent(chunk).
			Build()); err != nil {
			n.logger.Warn("Failed to send DM",
				zap.Uint64("user_id", uint64(userID)),
				zap.Error(err))
			return false
		}
	}
	return true
}

// SendFileDM delivers a file to a user's DMs.
func (n *Notifier) SendFileDM(userID snowflake.ID, content, filename string, data []byte) bool {
	channel, err := n.rest.CreateDMChannel(userID)
	if err != nil {
		n.logger.Warn("Failed to open DM channel",
			zap.Uint64("user_id", uint64(userID)),
			zap.Error(err))
		return false
	}

	if _, err := n.rest.CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		SetContent(content).
		AddFile(filename, "", bytes.NewReader(data)).
		Build()); err != nil {
		n.logger.Warn("Failed to send file DM",
			zap.Uint64("user_id", uint64(userID)),
			zap.Error(err))
		return false
	}
	return true
}

// Delete removes a message.
func (n *Notifier) Delete(channelID, messageID snowflake.ID, reason string) {
	if err := n.rest.DeleteMessage(channelID, messageID, rest.WithReason(reason)); err != nil {
		n.logger.Warn("Failed to delete message",
			zap.Uint64("channel_id", uint64(channelID)),
			zap.Uint64("message_id", uint64(messageID)),
			zap.Error(err))
	}
}

// Timeout mutes a guild member for the given duration.
func (n *Notifier) Timeout(guildID, userID snowflake.ID, d time.Duration, reason string) error {
	until := json.NewNullable(time.Now().Add(d))
	_, err := n.rest.UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: &until,
	}, rest.WithReason(reason))
	if err != nil {
		n.logger.Error("Failed to timeout member",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Uint64("user_id", uint64(userID)),
			zap.Error(err))
	}
	return err
}

// ClearTimeout lifts a member's timeout.
func (n *Notifier) ClearTimeout(guildID, userID snowflake.ID, reason string) error {
	until := json.Null[time.Time]()
	_, err := n.rest.UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: &until,
	}, rest.WithReason(reason))
	if err != nil {
		n.logger.Error("Failed to clear member timeout",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Uint64("user_id", uint64(userID)),
			zap.Error(err))
	}
	return err
}

// Ban bans a guild member.
func (n *Notifier) Ban(guildID, userID snowflake.ID, reason string) error {
	err := n.rest.AddBan(guildID, userID, 0, rest.WithReason(reason))
	if err != nil {
		n.logger.Error("Failed to ban member",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Uint64("user_id", uint64(userID)),
			zap.Error(err))
	}
	return err
}

// Typing shows the typing indicator while a generation call is in flight.
func (n *Notifier) Typing(channelID snowflake.ID) {
	if err := n.rest.SendTyping(channelID); err != nil {
		n.logger.Debug("Failed to send typing indicator", zap.Error(err))
	}
}

// Enforce runs the independent side effects of one enforcement action
// concurrently: delete the message, post the channel notice, DM the user.
// Each leg fails on its own.
func (n *Notifier) Enforce(channelID, messageID snowflake.ID, userID snowflake.ID, channelNotice, dmNotice string) {
	p := pool.New()
	p.Go(func() {
		n.Delete(channelID, messageID, "moderation")
	})
	if channelNotice != "" {
		p.Go(func() {
			n.Send(channelID, channelNotice)
		})
	}
	if dmNotice != "" {
		p.Go(func() {
			n.SendDM(userID, dmNotice)
		})
	}
	p.Wait()
}

// LogActivity posts an embed to the configured activity log channel.
func (n *Notifier) LogActivity(title, description string, color int, fields map[string]string) {
	if n.logChannelID == 0 {
		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(description).
		SetColor(color).
		SetTimestamp(time.Now())
	for name, value := range fields {
		embed.AddField(name, value, true)
	}

	if _, err := n.rest.CreateMessage(n.logChannelID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed.Build()).
		Build()); err != nil {
		n.logger.Warn("Failed to post activity log", zap.Error(err))
	}
}

// messageChunkSize stays under Discord's 2000 character limit with headroom
// for mention prefixes.
const messageChunkSize = 1900

func chunkMessage(content string) []string {
	if len(content) <= messageChunkSize {
		return []string{content}
	}

	var chunks []string
	runes := []rune(content)
	for start := 0; start < len(runes); start += messageChunkSize {
		end := min(start+messageChunkSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func mention(userID snowflake.ID) string {
	return fmt.Sprintf("<@%d>", userID)
}
