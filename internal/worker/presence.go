package worker

import (
	"context"
	"math/rand/v2"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type presenceStatus struct {
	activity gateway.PresenceOpt
	status   discord.OnlineStatus
}

// presenceStatuses is the rotation pool. One entry is picked at random on
// every tick.
var presenceStatuses = []presenceStatus{
	{gateway.WithWatchingActivity("🎬 Editing Help | !files"), discord.OnlineStatusOnline},
	{gateway.WithListeningActivity("your editing questions 🎨"), discord.OnlineStatusIdle},
	{gateway.WithPlayingActivity("with video effects ⚡"), discord.OnlineStatusDND},
	{gateway.WithWatchingActivity("tutorials 📚"), discord.OnlineStatusOnline},
	{gateway.WithPlayingActivity("Valorant 🎮"), discord.OnlineStatusOnline},
	{gateway.WithListeningActivity("your music taste 🎵"), discord.OnlineStatusIdle},
	{gateway.WithWatchingActivity("anime 📺"), discord.OnlineStatusOnline},
	{gateway.WithPlayingActivity("with code ⚙️"), discord.OnlineStatusDND},
	{gateway.WithListeningActivity("your thoughts 💭"), discord.OnlineStatusOnline},
	{gateway.WithWatchingActivity("movies 🍿"), discord.OnlineStatusIdle},
	{gateway.WithPlayingActivity("chess 🎯"), discord.OnlineStatusOnline},
	{gateway.WithWatchingActivity("tech tutorials 🔧"), discord.OnlineStatusDND},
	{gateway.WithListeningActivity("Discord chats 💬"), discord.OnlineStatusOnline},
	{gateway.WithPlayingActivity("with AI magic ✨"), discord.OnlineStatusIdle},
	{gateway.WithWatchingActivity("creators work 👨‍💻"), discord.OnlineStatusOnline},
	{gateway.WithPlayingActivity("rendering videos 🎥"), discord.OnlineStatusDND},
	{gateway.WithWatchingActivity("over the server 👀"), discord.OnlineStatusOnline},
	{gateway.WithListeningActivity("Spotify 🎧"), discord.OnlineStatusIdle},
	{gateway.WithPlayingActivity("Minecraft ⛏️"), discord.OnlineStatusOnline},
	{gateway.WithWatchingActivity("YouTube 📺"), discord.OnlineStatusIdle},
	{gateway.WithListeningActivity("lo-fi beats 🌙"), discord.OnlineStatusIdle},
	{gateway.WithWatchingActivity("Netflix 🎬"), discord.OnlineStatusIdle},
	{gateway.WithListeningActivity("your problems 💭"), discord.OnlineStatusOnline},
	{gateway.WithWatchingActivity("Twitch streams 📡"), discord.OnlineStatusIdle},
	{gateway.WithPlayingActivity("Rocket League 🚀"), discord.OnlineStatusOnline},
	{gateway.WithWatchingActivity("server activity 📊"), discord.OnlineStatusOnline},
	{gateway.WithListeningActivity("chill vibes 🌊"), discord.OnlineStatusIdle},
	{gateway.WithWatchingActivity("for rule breakers 🔍"), discord.OnlineStatusOnline},
	{gateway.WithWatchingActivity("memes 😂"), discord.OnlineStatusIdle},
	{gateway.WithListeningActivity("podcasts 🎙️"), discord.OnlineStatusIdle},
	{gateway.WithWatchingActivity("chat for spam 🛡️"), discord.OnlineStatusOnline},
}

// Presence rotates the bot's activity on a fixed schedule.
type Presence struct {
	client bot.Client
	cron   *cron.Cron
	logger *zap.Logger
}

// NewPresence creates the presence rotator.
func NewPresence(client bot.Client, logger *zap.Logger) *Presence {
	return &Presence{
		client: client,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.Named("presence"),
	}
}

// Start begins rotating every 30 seconds. The first rotation happens
// immediately so the bot never sits without a status.
func (p *Presence) Start() error {
	p.rotate()

	if _, err := p.cron.AddFunc("*/30 * * * * *", p.rotate); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the rotation.
func (p *Presence) Stop() {
	p.cron.Stop()
}

func (p *Presence) rotate() {
	next := presenceStatuses[rand.IntN(len(presenceStatuses))]
	if err := p.client.SetPresence(context.Background(),
		next.activity,
		gateway.WithOnlineStatus(next.status),
	); err != nil {
		p.logger.Debug("Failed to update presence", zap.Error(err))
	}
}
