// Package setup performs the shared application bootstrap: environment,
// configuration, logging, and the external API clients.
package setup

import (
	"context"
	"errors"
	"log"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/bmrdev/editing-helper/internal/setup/config"
	"github.com/bmrdev/editing-helper/internal/setup/logging"
	"github.com/bmrdev/editing-helper/internal/storage"
)

// AppSetup contains all the common setup components.
type AppSetup struct {
	Config      *config.Config
	Logger      *zap.Logger
	GenAIClient *genai.Client
	Inviters    *storage.Inviters
}

// InitializeApp performs common setup tasks and returns an AppSetup.
func InitializeApp(ctx context.Context, logDir string) (*AppSetup, error) {
	// A missing .env is fine; secrets may come from the real environment
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Bot.Token == "" {
		return nil, errors.New("discord token is not set; use config.toml or DISCORD_TOKEN")
	}
	if cfg.GeminiAI.APIKey == "" {
		return nil, errors.New("gemini api key is not set; use config.toml or GEMINI_API_KEY")
	}

	logger, err := logging.SetupLogging(logDir, cfg.Debug.LogLevel, cfg.Debug.MaxLogsToKeep)
	if err != nil {
		return nil, err
	}

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAI.APIKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", zap.Error(err))
		return nil, err
	}

	inviters, err := storage.LoadInviters(cfg.Bot.InvitersFile, logger)
	if err != nil {
		logger.Error("Failed to load inviter records", zap.Error(err))
		return nil, err
	}
	logger.Info("Loaded inviter records", zap.Int("guilds", inviters.Len()))

	return &AppSetup{
		Config:      cfg,
		Logger:      logger,
		GenAIClient: genaiClient,
		Inviters:    inviters,
	}, nil
}

// CleanupApp performs cleanup tasks.
func (setup *AppSetup) CleanupApp() {
	if err := setup.GenAIClient.Close(); err != nil {
		log.Printf("Failed to close Gemini client: %v", err)
	}
	if err := setup.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
}
