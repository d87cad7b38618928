// Package sqlite provides a SQLite-backed settings store that also keeps the
// analytics event log.
package sqlite

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// ErrEmptyKey is returned by Set for a blank setting name.
var ErrEmptyKey = errors.New("setting key cannot be empty")

// SQLiteStorage stores settings as JSON-encoded values keyed by name.
type SQLiteStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects to the database at path and applies pending migrations.
func Open(path string) (*sqlx.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: connect: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sqlx.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return fmt.Errorf("sqlite storage: set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("sqlite storage: apply migrations: %w", err)
	}
	return nil
}

// NewSQLiteStorage opens a store at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteStorage{db: db, now: time.Now}, nil
}

// Close closes the underlying connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite storage: close: %w", err)
	}
	return nil
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// GetAll returns every stored setting. Rows whose value cannot be decoded are
// returned as their raw text.
func (s *SQLiteStorage) GetAll() (map[string]any, error) {
	var rows []settingRow
	if err := s.db.Select(&rows, `SELECT key, value FROM settings`); err != nil {
		return nil, fmt.Errorf("sqlite storage: read settings: %w", err)
	}
	out := make(map[string]any, len(rows))
	for _, r := range rows {
		var v any
		if err := json.Unmarshal([]byte(r.Value), &v); err != nil {
			out[r.Key] = r.Value
			continue
		}
		out[r.Key] = v
	}
	return out, nil
}

// Set upserts a single setting.
func (s *SQLiteStorage) Set(key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(encoded), s.now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite storage: write %s: %w", key, err)
	}
	return nil
}
