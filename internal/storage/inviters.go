// Package storage persists the small bits of bot state that must survive a
// restart.
package storage

import (
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Inviters remembers which user added the bot to each guild. The file is a
// flat JSON object keyed by guild ID so it stays hand-editable.
type Inviters struct {
	mu     sync.Mutex
	path   string
	byID   map[string]uint64
	logger *zap.Logger
}

// LoadInviters reads the inviter file at path, starting empty if the file
// does not exist yet.
func LoadInviters(path string, logger *zap.Logger) (*Inviters, error) {
	s := &Inviters{
		path:   path,
		byID:   make(map[string]uint64),
		logger: logger.Named("inviters"),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inviters file: %w", err)
	}

	if err := sonic.Unmarshal(data, &s.byID); err != nil {
		return nil, fmt.Errorf("failed to parse inviters file: %w", err)
	}

	return s, nil
}

// Get returns the recorded inviter for a guild.
func (s *Inviters) Get(guildID uint64) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, exists := s.byID[formatID(guildID)]
	return userID, exists
}

// Set records the inviter for a guild and writes the file through. A failed
// write keeps the in-memory entry and is logged rather than returned, since
// the caller is an event handler with nobody to report to.
func (s *Inviters) Set(guildID, userID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[formatID(guildID)] = userID
	if err := s.save(); err != nil {
		s.logger.Error("Failed to save inviters file", zap.Error(err))
	}
}

// Delete forgets a guild, typically after the bot is removed from it.
func (s *Inviters) Delete(guildID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, formatID(guildID))
	if err := s.save(); err != nil {
		s.logger.Error("Failed to save inviters file", zap.Error(err))
	}
}

// Len reports how many guilds have a recorded inviter.
func (s *Inviters) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Inviters) save() error {
	data, err := sonic.Marshal(s.byID)
	if err != nil {
		return fmt.Errorf("failed to marshal inviters: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write inviters file: %w", err)
	}
	return nil
}

func formatID(id uint64) string {
	return fmt.Sprintf("%d", id)
}
