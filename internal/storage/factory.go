package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/storage/bolt"
	"github.com/cristianoliveira/flashprefs/internal/storage/sqlite"
)

const (
	// BackendTOML selects the TOML file in config_dir.
	BackendTOML = "toml"
	// BackendSQLite selects the SQLite database in state_dir.
	BackendSQLite = "sqlite"
	// BackendBolt selects the bbolt database in state_dir.
	BackendBolt = "bolt"

	// DBFileName is shared by the sqlite settings backend and the event log.
	DBFileName   = "flashprefs.db"
	boltFileName = "settings.bolt"
)

var (
	_ Store = (*sqlite.SQLiteStorage)(nil)
	_ Store = (*bolt.BoltStorage)(nil)
)

var (
	newSQLiteStorage = func(path string) (Store, error) { return sqlite.NewSQLiteStorage(path) }
	newBoltStorage   = func(path string) (Store, error) { return bolt.NewBoltStorage(path) }
)

// ConfigDir returns the configured config directory.
func ConfigDir() string {
	return config.Get("config_dir", "")
}

// StateDir returns the configured state directory.
func StateDir() string {
	return config.Get("state_dir", "")
}

// SettingsFilePath is where the TOML backend keeps settings.
func SettingsFilePath() string {
	return filepath.Join(ConfigDir(), settingsFileName)
}

// DBPath is the SQLite database shared with the event log.
func DBPath() string {
	return filepath.Join(StateDir(), DBFileName)
}

// NewFromConfig creates the store selected by storage_backend.
func NewFromConfig() (Store, error) {
	return NewForBackend(config.Get("storage_backend", BackendTOML))
}

// NewForBackend creates a store for backend. Unknown names and backends that
// fail to open fall back to the TOML file.
func NewForBackend(backend string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendTOML:
		return NewFileStorage(SettingsFilePath())
	case BackendSQLite:
		s, err := newSQLiteStorage(DBPath())
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to toml: %v", err))
			return NewFileStorage(SettingsFilePath())
		}
		return s, nil
	case BackendBolt:
		s, err := newBoltStorage(filepath.Join(StateDir(), boltFileName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize bolt backend, falling back to toml: %v", err))
			return NewFileStorage(SettingsFilePath())
		}
		return s, nil
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to toml", backend))
		return NewFileStorage(SettingsFilePath())
	}
}
