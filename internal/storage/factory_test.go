package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/storage/bolt"
	"github.com/cristianoliveira/flashprefs/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDirs(t *testing.T) (string, string) {
	t.Helper()
	configDir := filepath.Join(t.TempDir(), "config")
	stateDir := filepath.Join(t.TempDir(), "state")
	config.Set("config_dir", configDir)
	config.Set("state_dir", stateDir)
	return configDir, stateDir
}

func TestNewForBackendTOML(t *testing.T) {
	configDir, _ := setupDirs(t)

	s, err := NewForBackend("TOML")
	require.NoError(t, err)
	defer s.Close()

	fs, ok := s.(*FileStorage)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(configDir, "settings.toml"), fs.Path())
}

func TestNewForBackendSQLite(t *testing.T) {
	_, stateDir := setupDirs(t)

	s, err := NewForBackend(BackendSQLite)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*sqlite.SQLiteStorage)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(stateDir, DBFileName), DBPath())
}

func TestNewForBackendBolt(t *testing.T) {
	setupDirs(t)

	s, err := NewForBackend(BackendBolt)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*bolt.BoltStorage)
	assert.True(t, ok)
}

func TestNewForBackendUnknownFallsBack(t *testing.T) {
	setupDirs(t)

	s, err := NewForBackend("redis")
	require.NoError(t, err)
	_, ok := s.(*FileStorage)
	assert.True(t, ok)
}

func TestNewForBackendFallsBackOnInitFailure(t *testing.T) {
	setupDirs(t)
	old := newSQLiteStorage
	newSQLiteStorage = func(string) (Store, error) { return nil, errors.New("locked") }
	t.Cleanup(func() { newSQLiteStorage = old })

	s, err := NewForBackend(BackendSQLite)
	require.NoError(t, err)
	_, ok := s.(*FileStorage)
	assert.True(t, ok)
}

func TestNewFromConfigUsesStorageBackend(t *testing.T) {
	setupDirs(t)
	config.Set("storage_backend", BackendBolt)
	t.Cleanup(func() { config.Set("storage_backend", BackendTOML) })

	s, err := NewFromConfig()
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*bolt.BoltStorage)
	assert.True(t, ok)
}
