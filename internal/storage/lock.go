package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	lockTimeout = 5 * time.Second
	lockRetry   = 50 * time.Millisecond
	// lockStale is the age after which a leftover lock directory is broken.
	lockStale = 30 * time.Second
)

// ErrLockTimeout is returned when a lock cannot be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Lock is an exclusive lock represented by a directory.
type Lock struct {
	dir string
}

// NewLock creates a lock at the given directory path.
func NewLock(dir string) *Lock {
	return &Lock{dir: dir}
}

// Acquire creates the lock directory, retrying until lockTimeout. A lock older
// than lockStale is assumed abandoned and removed.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.dir), FileModeDir); err != nil {
		return fmt.Errorf("create lock parent: %w", err)
	}
	deadline := time.Now().Add(lockTimeout)
	for {
		err := os.Mkdir(l.dir, FileModeDir)
		if err == nil {
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock directory: %w", err)
		}
		if info, statErr := os.Stat(l.dir); statErr == nil && time.Since(info.ModTime()) > lockStale {
			os.Remove(l.dir)
			continue
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, l.dir)
		}
		time.Sleep(lockRetry)
	}
}

// Release removes the lock directory.
func (l *Lock) Release() error {
	return os.Remove(l.dir)
}

// WithLock executes fn while holding the lock at dir.
func WithLock(dir string, fn func() error) error {
	lock := NewLock(dir)
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer lock.Release()
	return fn()
}
