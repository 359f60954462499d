package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInvitersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guild_inviters.json")
	logger := zap.NewNop()

	s, err := LoadInviters(path, logger)
	require.NoError(t, err)
	assert.Zero(t, s.Len())

	s.Set(111, 222)
	s.Set(333, 444)

	reloaded, err := LoadInviters(path, logger)
	require.NoError(t, err)

	userID, exists := reloaded.Get(111)
	assert.True(t, exists)
	assert.Equal(t, uint64(222), userID)

	userID, exists = reloaded.Get(333)
	assert.True(t, exists)
	assert.Equal(t, uint64(444), userID)
}

func TestInvitersDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guild_inviters.json")
	logger := zap.NewNop()

	s, err := LoadInviters(path, logger)
	require.NoError(t, err)

	s.Set(1, 2)
	s.Delete(1)

	_, exists := s.Get(1)
	assert.False(t, exists)

	reloaded, err := LoadInviters(path, logger)
	require.NoError(t, err)
	_, exists = reloaded.Get(1)
	assert.False(t, exists)
}

func TestInvitersMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	s, err := LoadInviters(path, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, s.Len())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestInvitersRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadInviters(path, zap.NewNop())
	assert.Error(t, err)
}
