package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/bmrdev/editing-helper/internal/security"
	"github.com/bmrdev/editing-helper/internal/setup/config"
	"github.com/bmrdev/editing-helper/internal/worker"
)

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// fileExtensions are tried in order when resolving a bare file request.
var fileExtensions = []string{"", ".txt", ".pdf", ".png", ".jpg", ".jpeg", ".gif", ".mp3", ".mp4", ".zip", ".ffx"}

// Commands implements the prefix command surface. Unrecognized names fall
// through to the file resolver, so `!foggy_cc` delivers files/foggy_cc.ffx
// by DM.
type Commands struct {
	cfg        *config.BotConfig
	rest       rest.Rest
	notifier   *Notifier
	authorizer *security.Authorizer
	reminders  *worker.Reminders
	logger     *zap.Logger
}

// NewCommands creates the command surface.
func NewCommands(cfg *config.BotConfig, restClient rest.Rest, notifier *Notifier, authorizer *security.Authorizer, reminders *worker.Reminders, logger *zap.Logger) *Commands {
	return &Commands{
		cfg:        cfg,
		rest:       restClient,
		notifier:   notifier,
		authorizer: authorizer,
		reminders:  reminders,
		logger:     logger.Named("commands"),
	}
}

// Handle runs a prefixed message. The message is always consumed.
func (c *Commands) Handle(ctx context.Context, event *events.MessageCreate) {
	msg := event.Message
	body := strings.TrimPrefix(msg.Content, c.cfg.Prefix)
	if body == "" {
		return
	}

	fields := strings.Fields(body)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	c.logger.Info("Command invoked",
		zap.String("command", name),
		zap.String("user", msg.Author.Username))

	switch name {
	case "help":
		c.help(event)
	case "hi":
		c.hi(event)
	case "files":
		c.listFiles(event, "")
	case "presets":
		c.listFiles(event, ".ffx")
	case "software_list", "software":
		c.softwareList(event)
	case "remind":
		c.remind(event, args)
	case "timer":
		c.timer(event, args)
	case "ban":
		c.ban(event, args)
	case "mute", "timeout":
		c.mute(event, args)
	case "unmute":
		c.unmute(event, args)
	default:
		c.sendFile(event, body)
	}
}

func (c *Commands) help(event *events.MessageCreate) {
	help := `**🤖 EDITING HELPER BOT - COMMAND LIST**

**📋 BASIC COMMANDS:**
• !help - Shows this list of commands
• !files - Lists all available files that can be requested
• !presets - Lists color correction presets
• !software_list - Lists supported editing software

**🛠️ UTILITY TOOLS:**
• !remind <time> <text> - Set reminders (e.g., !remind 5m Check the render)
• !timer <time> - Start a countdown timer

**🛡️ MODERATION (admins and the inviter only):**
• !ban @user - Ban a user
• !mute @user <time> - Timeout a user (e.g., !mute @user 24h)
• !unmute @user - Remove a timeout

**📂 FILE COMMANDS:**
Type !filename (e.g., !foggy_cc) to receive files in your DMs

**🎯 SMART FEATURES:**
✓ Auto spam detection & moderation
✓ Multi-step tutorial workflow
✓ Image and video analysis
✓ Server security & raid detection
✓ Automatic invite link blocking`

	c.dmWithConfirmation(event, help, "I've sent you the command list in your DMs!")
}

func (c *Commands) hi(event *events.MessageCreate) {
	c.dmWithConfirmation(event, "HI", "I've sent you a DM!")
}

// listFiles DMs the requestable files, optionally filtered by extension.
func (c *Commands) listFiles(event *events.MessageCreate, extFilter string) {
	entries, err := os.ReadDir(c.cfg.FilesDir)
	if err != nil {
		c.notifier.Send(event.Message.ChannelID, "No files available currently.")
		return
	}

	var lines []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		if extFilter != "" && !strings.EqualFold(filepath.Ext(filename), extFilter) {
			continue
		}
		command := strings.TrimSuffix(filename, filepath.Ext(filename))
		lines = append(lines, fmt.Sprintf("!%s - %s", command, filename))
	}

	if len(lines) == 0 {
		c.notifier.Send(event.Message.ChannelID, "No files available currently.")
		return
	}

	sort.Strings(lines)
	title := "Available Files"
	if extFilter == ".ffx" {
		title = "Available Color Correction Presets"
	}
	response := fmt.Sprintf("**%s:**\n```\n%s\n```\nType the command (e.g., !foggy_cc) to receive the file in your DMs.",
		title, strings.Join(lines, "\n"))

	c.dmWithConfirmation(event, response, "I've sent you the list in your DMs!")
}

func (c *Commands) softwareList(event *events.MessageCreate) {
	response := strings.Join([]string{
		"**Supported Software:**",
		"• Adobe After Effects",
		"• Adobe Premiere Pro",
		"• Adobe Photoshop",
		"• Adobe Media Encoder",
		"• DaVinci Resolve",
		"• Final Cut Pro",
		"• Topaz Video AI",
		"• CapCut",
		"",
		"Ask me for help with any of these and I'll walk you through it.",
	}, "\n")

	c.dmWithConfirmation(event, response, "I've sent you the software list in your DMs!")
}

func (c *Commands) remind(event *events.MessageCreate, args []string) {
	msg := event.Message
	if len(args) < 2 {
		c.notifier.Send(msg.ChannelID, "Usage: !remind <time> <reminder text>\nExample: !remind 30m Check the export")
		return
	}

	delay, err := worker.ParseDelay(args[0])
	if err != nil {
		c.notifier.Send(msg.ChannelID, "❌ Use time format like: 5m, 1h, 30s")
		return
	}

	text := strings.Join(args[1:], " ")
	c.reminders.Schedule(uint64(msg.Author.ID), delay, text)
	c.notifier.Send(msg.ChannelID, fmt.Sprintf("⏰ Reminder set for %s: **%s**", args[0], text))
}

func (c *Commands) timer(event *events.MessageCreate, args []string) {
	msg := event.Message
	if len(args) < 1 {
		c.notifier.Send(msg.ChannelID, "Usage: !timer <time>\nExample: !timer 10m")
		return
	}

	delay, err := worker.ParseDelay(args[0])
	if err != nil {
		c.notifier.Send(msg.ChannelID, "❌ Use time format like: 5m, 1h, 30s")
		return
	}

	c.reminders.Schedule(uint64(msg.Author.ID), delay, fmt.Sprintf("⏱️ Your %s timer is up!", args[0]))
	c.notifier.Send(msg.ChannelID, fmt.Sprintf("⏱️ Timer started for %s!", args[0]))
}

func (c *Commands) ban(event *events.MessageCreate, args []string) {
	msg := event.Message
	if !c.requirePrivilege(event) {
		return
	}

	targetID, ok := parseMention(args)
	if !ok {
		c.notifier.Send(msg.ChannelID, "Who do you want me to ban? Mention someone.")
		return
	}

	if !c.canActOn(event, targetID) {
		c.notifier.Send(msg.ChannelID, "❌ I can't ban this user!")
		return
	}

	c.notifier.SendDM(targetID, fmt.Sprintf("You have been **BANNED** by %s.", msg.Author.Username))
	if err := c.notifier.Ban(*event.GuildID, targetID, fmt.Sprintf("Banned by %s", msg.Author.Username)); err != nil {
		c.notifier.Send(msg.ChannelID, "❌ I couldn't ban that user. Check my permissions.")
		return
	}
	c.notifier.Send(msg.ChannelID, fmt.Sprintf("✓ %s has been **BANNED** from the server. 🚫", mention(targetID)))
	c.notifier.LogActivity("🔨 User Banned", fmt.Sprintf("%s was banned", mention(targetID)), 0xFF0000, map[string]string{
		"Banned By": msg.Author.Username,
	})
}

func (c *Commands) mute(event *events.MessageCreate, args []string) {
	msg := event.Message
	if !c.requirePrivilege(event) {
		return
	}

	targetID, ok := parseMention(args)
	if !ok || len(args) < 2 {
		c.notifier.Send(msg.ChannelID, "Usage: !mute @user 24h")
		return
	}

	delay, err := worker.ParseDelay(args[1])
	if err != nil {
		c.notifier.Send(msg.ChannelID, "Invalid duration format. Use: 1h, 24h, 1d, 30m, or 60s")
		return
	}

	if !c.canActOn(event, targetID) {
		c.notifier.Send(msg.ChannelID, "❌ I can't timeout this user!")
		return
	}

	c.notifier.SendDM(targetID, fmt.Sprintf("You have been **TIMED OUT** by %s for %s.", msg.Author.Username, args[1]))
	if err := c.notifier.Timeout(*event.GuildID, targetID, delay, fmt.Sprintf("Timeout by %s", msg.Author.Username)); err != nil {
		c.notifier.Send(msg.ChannelID, "❌ I couldn't timeout that user. Check my permissions.")
		return
	}
	c.notifier.Send(msg.ChannelID, fmt.Sprintf("✓ %s has been **TIMED OUT** for %s. 🔇", mention(targetID), args[1]))
}

func (c *Commands) unmute(event *events.MessageCreate, args []string) {
	msg := event.Message
	if !c.requirePrivilege(event) {
		return
	}

	targetID, ok := parseMention(args)
	if !ok {
		c.notifier.Send(msg.ChannelID, "Usage: !unmute @user")
		return
	}

	if err := c.notifier.ClearTimeout(*event.GuildID, targetID, fmt.Sprintf("Unmuted by %s", msg.Author.Username)); err != nil {
		c.notifier.Send(msg.ChannelID, "❌ I couldn't unmute that user. Check my permissions.")
		return
	}
	c.notifier.Send(msg.ChannelID, fmt.Sprintf("✓ %s has been **UNMUTED**. 🔊", mention(targetID)))
	c.notifier.SendDM(targetID, fmt.Sprintf("You have been **UNMUTED** by %s.", msg.Author.Username))
}

// sendFile resolves a bare `!name` request against the files directory,
// trying underscore/space variants and the known extensions.
func (c *Commands) sendFile(event *events.MessageCreate, request string) {
	msg := event.Message

	path, ok := c.resolveFile(request)
	if !ok {
		// Unknown command and no matching file; stay quiet like an
		// unrecognized command would.
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Error("Failed to read requested file",
			zap.String("path", path),
			zap.Error(err))
		c.notifier.Send(msg.ChannelID, fmt.Sprintf("%s, an error occurred while trying to send you the file.", mention(msg.Author.ID)))
		return
	}

	if c.notifier.SendFileDM(msg.Author.ID, fmt.Sprintf("Here's your requested file: `%s`", request), filepath.Base(path), data) {
		if event.GuildID != nil {
			c.notifier.Send(msg.ChannelID, fmt.Sprintf("%s, I've sent your requested file to your DMs!", mention(msg.Author.ID)))
		}
		return
	}
	c.notifier.Send(msg.ChannelID, fmt.Sprintf("%s, I couldn't send you the file. Please check your privacy settings.", mention(msg.Author.ID)))
}

func (c *Commands) resolveFile(request string) (string, bool) {
	request = strings.TrimSpace(request)
	if request == "" || strings.ContainsAny(request, "/\\") || strings.Contains(request, "..") {
		return "", false
	}

	lowered := strings.ToLower(request)
	candidates := []string{
		request,
		strings.ReplaceAll(request, "_", " "),
		strings.ReplaceAll(request, " ", "_"),
		lowered,
		strings.ReplaceAll(lowered, "_", " "),
		strings.ReplaceAll(lowered, " ", "_"),
	}

	for _, base := range candidates {
		for _, ext := range fileExtensions {
			path := filepath.Join(c.cfg.FilesDir, base+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// requirePrivilege gates moderation commands to guild channels and
// privileged users.
func (c *Commands) requirePrivilege(event *events.MessageCreate) bool {
	msg := event.Message
	if event.GuildID == nil {
		c.notifier.Send(msg.ChannelID, "This command only works in a server.")
		return false
	}

	var roleIDs []snowflake.ID
	if msg.Member != nil {
		roleIDs = msg.Member.RoleIDs
	}
	if !c.authorizer.IsPrivileged(*event.GuildID, msg.Author.ID, msg.Author.Username, roleIDs) {
		c.notifier.Send(msg.ChannelID,
			fmt.Sprintf("%s, only server admins or the person who added me can use this command.", mention(msg.Author.ID)))
		return false
	}
	return true
}

// canActOn refuses enforcement against the bot's creator.
func (c *Commands) canActOn(event *events.MessageCreate, targetID snowflake.ID) bool {
	member, err := c.rest.GetMember(*event.GuildID, targetID)
	if err != nil {
		// Unknown member; let the REST call surface the real failure
		return true
	}
	return !c.authorizer.IsCreator(member.User.Username)
}

// dmWithConfirmation DMs content to the requester and confirms in the
// channel. Closed DMs fall back to posting the content where it was asked.
func (c *Commands) dmWithConfirmation(event *events.MessageCreate, content, confirmation string) {
	msg := event.Message
	if event.GuildID == nil {
		c.notifier.SendChunked(msg.ChannelID, content)
		return
	}

	if c.notifier.SendDM(msg.Author.ID, content) {
		c.notifier.Send(msg.ChannelID, fmt.Sprintf("%s, %s", mention(msg.Author.ID), confirmation))
		return
	}
	c.notifier.SendChunked(msg.ChannelID, content)
}

func parseMention(args []string) (snowflake.ID, bool) {
	if len(args) == 0 {
		return 0, false
	}
	match := mentionPattern.FindStringSubmatch(args[0])
	if match == nil {
		return 0, false
	}
	id, err := snowflake.Parse(match[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
