package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLockReleases(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lock")

	called := false
	require.NoError(t, WithLock(dir, func() error {
		called = true
		_, err := os.Stat(dir)
		return err
	}))
	assert.True(t, called)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWithLockPropagatesError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lock")
	boom := errors.New("boom")

	err := WithLock(dir, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLockTimesOut(t *testing.T) {
	oldTimeout, oldRetry := lockTimeout, lockRetry
	lockTimeout, lockRetry = 30*time.Millisecond, 5*time.Millisecond
	t.Cleanup(func() { lockTimeout, lockRetry = oldTimeout, oldRetry })

	dir := filepath.Join(t.TempDir(), "lock")
	held := NewLock(dir)
	require.NoError(t, held.Acquire())
	defer held.Release()

	err := NewLock(dir).Acquire()
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestLockBreaksStaleLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lock")
	require.NoError(t, os.Mkdir(dir, FileModeDir))
	old := time.Now().Add(-2 * lockStale)
	require.NoError(t, os.Chtimes(dir, old, old))

	lock := NewLock(dir)
	require.NoError(t, lock.Acquire())
	assert.NoError(t, lock.Release())
}

func TestWithLockSerializesWriters(t *testing.T) {
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)

	keys := []string{"errorReporting", "trim", "unsafeMode", "updatesEnabled"}
	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			assert.NoError(t, fs.Set(k, true))
		}(key)
	}
	wg.Wait()

	got, err := fs.GetAll()
	require.NoError(t, err)
	assert.Len(t, got, len(keys))
}
