package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var ErrConfigFileNotFound = errors.New("could not find config file in any config path")

// Config represents the entire application configuration.
type Config struct {
	Bot        BotConfig        `koanf:"bot"`
	GeminiAI   GeminiAI         `koanf:"gemini_ai"`
	Moderation ModerationConfig `koanf:"moderation"`
	Security   SecurityConfig   `koanf:"security"`
	Debug      Debug            `koanf:"debug"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Token for bot authentication. Falls back to the DISCORD_TOKEN
	// environment variable when empty.
	Token string `koanf:"token"`
	// Prefix for textual commands.
	Prefix string `koanf:"prefix"`
	// OwnerMarker is the case-insensitive substring identifying the bot
	// owner's username.
	OwnerMarker string `koanf:"owner_marker"`
	// LogChannelID is the channel that receives activity log embeds.
	// Zero disables activity logging.
	LogChannelID uint64 `koanf:"log_channel_id"`
	// AutoModGuildID is the guild that receives the AutoMod keyword rule
	// on startup. Zero skips rule creation.
	AutoModGuildID uint64 `koanf:"automod_guild_id"`
	// FilesDir is the directory served by the file commands.
	FilesDir string `koanf:"files_dir"`
	// InvitersFile is the path of the persisted guild inviter mapping.
	InvitersFile string `koanf:"inviters_file"`
}

// GeminiAI contains Gemini API configuration.
// APIKey falls back to the GEMINI_API_KEY environment variable when empty.
type GeminiAI struct {
	APIKey string `koanf:"api_key"`
	// Model used for text chat and tutorials.
	Model string `koanf:"model"`
	// VisionModel used for image and video analysis.
	VisionModel string `koanf:"vision_model"`
	// MaxConcurrent bounds in-flight generation calls.
	MaxConcurrent int64 `koanf:"max_concurrent"`
}

// ModerationConfig contains thresholds for the escalation policy.
type ModerationConfig struct {
	// WarningResetSeconds is the quiet period after which violation
	// counters start over.
	WarningResetSeconds int `koanf:"warning_reset_seconds"`
	// MuteHours is the timeout duration applied on escalation.
	MuteHours int `koanf:"mute_hours"`
}

// SecurityConfig contains raid and account-age monitoring configuration.
type SecurityConfig struct {
	// RaidJoinThreshold is the number of joins within the detection
	// window that flags a raid.
	RaidJoinThreshold int `koanf:"raid_join_threshold"`
	// RaidWindowSeconds is the trailing detection window.
	RaidWindowSeconds int `koanf:"raid_window_seconds"`
	// JoinRetentionSeconds is how long join entries are kept.
	JoinRetentionSeconds int `koanf:"join_retention_seconds"`
	// MinAccountAgeDays flags accounts younger than this on join.
	MinAccountAgeDays int `koanf:"min_account_age_days"`
}

// Debug contains debug-related configuration.
type Debug struct {
	LogLevel      string `koanf:"log_level"`
	MaxLogsToKeep int    `koanf:"max_logs_to_keep"`
}

// LoadConfig loads the configuration from the first config.toml found in the
// search paths and applies environment variable fallbacks for secrets.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	configPaths := []string{
		".",
		"config",
		os.ExpandEnv("$HOME/.editing-helper"),
		"/etc/editing-helper",
	}

	loaded := false
	for _, path := range configPaths {
		candidate := path + "/config.toml"
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := k.Load(file.Provider(candidate), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", candidate, err)
		}
		loaded = true
		break
	}
	if !loaded {
		return nil, ErrConfigFileNotFound
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets come from the environment when not set in the file
	if cfg.Bot.Token == "" {
		cfg.Bot.Token = os.Getenv("DISCORD_TOKEN")
	}
	if cfg.GeminiAI.APIKey == "" {
		cfg.GeminiAI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills zero values with the defaults the bot shipped with.
func applyDefaults(cfg *Config) {
	if cfg.Bot.Prefix == "" {
		cfg.Bot.Prefix = "!"
	}
	if cfg.Bot.OwnerMarker == "" {
		cfg.Bot.OwnerMarker = "bmr"
	}
	if cfg.Bot.FilesDir == "" {
		cfg.Bot.FilesDir = "files"
	}
	if cfg.Bot.InvitersFile == "" {
		cfg.Bot.InvitersFile = "guild_inviters.json"
	}
	if cfg.GeminiAI.Model == "" {
		cfg.GeminiAI.Model = "gemini-2.5-flash"
	}
	if cfg.GeminiAI.VisionModel == "" {
		cfg.GeminiAI.VisionModel = "gemini-2.5-flash"
	}
	if cfg.GeminiAI.MaxConcurrent <= 0 {
		cfg.GeminiAI.MaxConcurrent = 8
	}
	if cfg.Moderation.WarningResetSeconds <= 0 {
		cfg.Moderation.WarningResetSeconds = 300
	}
	if cfg.Moderation.MuteHours <= 0 {
		cfg.Moderation.MuteHours = 24
	}
	if cfg.Security.RaidJoinThreshold <= 0 {
		cfg.Security.RaidJoinThreshold = 5
	}
	if cfg.Security.RaidWindowSeconds <= 0 {
		cfg.Security.RaidWindowSeconds = 60
	}
	if cfg.Security.JoinRetentionSeconds <= 0 {
		cfg.Security.JoinRetentionSeconds = 120
	}
	if cfg.Security.MinAccountAgeDays <= 0 {
		cfg.Security.MinAccountAgeDays = 7
	}
	if cfg.Debug.LogLevel == "" {
		cfg.Debug.LogLevel = "info"
	}
	if cfg.Debug.MaxLogsToKeep <= 0 {
		cfg.Debug.MaxLogsToKeep = 10
	}
}
