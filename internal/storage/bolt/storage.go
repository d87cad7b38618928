// Package bolt provides a bbolt-backed settings store.
package bolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// openTimeout bounds how long Open waits for another process holding the file.
const openTimeout = 2 * time.Second

var settingsBucket = []byte("settings")

// ErrEmptyKey is returned by Set for a blank setting name.
var ErrEmptyKey = errors.New("setting key cannot be empty")

// BoltStorage keeps one JSON-encoded value per key in a single bucket.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens or creates the database at path.
func NewBoltStorage(path string) (*BoltStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("bolt storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("bolt storage: create db directory: %w", err)
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("bolt storage: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(settingsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt storage: create bucket: %w", err)
	}
	return &BoltStorage{db: db}, nil
}

// GetAll returns every stored setting.
func (b *BoltStorage) GetAll() (map[string]any, error) {
	out := make(map[string]any)
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).ForEach(func(k, v []byte) error {
			var decoded any
			if err := json.Unmarshal(v, &decoded); err != nil {
				out[string(k)] = string(v)
				return nil
			}
			out[string(k)] = decoded
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("bolt storage: read settings: %w", err)
	}
	return out, nil
}

// Set writes a single setting in its own transaction.
func (b *BoltStorage) Set(key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("bolt storage: encode %s: %w", key, err)
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Put([]byte(key), encoded)
	})
	if err != nil {
		return fmt.Errorf("bolt storage: write %s: %w", key, err)
	}
	return nil
}

// Close releases the file lock.
func (b *BoltStorage) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
