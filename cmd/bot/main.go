package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/bmrdev/editing-helper/internal/bot"
	"github.com/bmrdev/editing-helper/internal/setup"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"
)

func main() {
	app := &cli.Command{
		Name:  "editing-helper",
		Usage: "Start the editing helper Discord bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-dir",
				Value: BotLogDir,
				Usage: "Directory for log sessions",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(ctx, c.String("log-dir"))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logDir string) error {
	app, err := setup.InitializeApp(ctx, logDir)
	if err != nil {
		return err
	}
	defer app.CleanupApp()

	discordBot, err := bot.New(app.Config, app.GenAIClient, app.Inviters, app.Logger)
	if err != nil {
		return err
	}

	if err := discordBot.Start(ctx); err != nil {
		return err
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	// Wait for interrupt signal to gracefully shutdown the bot
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	discordBot.Close()
	return nil
}
