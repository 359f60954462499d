package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogging initializes the logging system. Each run gets its own
// timestamped session directory; old sessions are rotated away.
func SetupLogging(logDir string, level string, maxLogsToKeep int) (*zap.Logger, error) {
	// Create logs directory if it doesn't exist
	err := os.MkdirAll(logDir, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	// Rotate log sessions
	err = rotateLogSessions(logDir, maxLogsToKeep)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	// Create a new session directory
	sessionDir := filepath.Join(logDir, time.Now().Format("2006-01-02_15-04-05"))
	err = os.MkdirAll(sessionDir, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return initLogger(filepath.Join(sessionDir, "main.log"), level)
}

// initLogger creates a new logger instance writing to both the session log
// file and stderr.
func initLogger(logPath string, level string) (*zap.Logger, error) {
	// Parse the log level
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	// Create a new logger with the development config
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{logPath, "stderr"}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	// Build the logger
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

// rotateLogSessions keeps only the most recent log sessions.
func rotateLogSessions(logDir string, maxLogsToKeep int) error {
	// Get all the sessions in the log directory
	sessions, err := filepath.Glob(filepath.Join(logDir, "*"))
	if err != nil {
		return err
	}

	// If we have less than the max logs to keep, we don't need to rotate
	if len(sessions) <= maxLogsToKeep {
		return nil
	}

	// Sort sessions by modification time (oldest first)
	sort.Slice(sessions, func(i, j int) bool {
		iInfo, _ := os.Stat(sessions[i])
		jInfo, _ := os.Stat(sessions[j])
		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	// Remove oldest sessions
	for i := range len(sessions) - maxLogsToKeep {
		err := os.RemoveAll(sessions[i])
		if err != nil {
			return err
		}
	}

	return nil
}
