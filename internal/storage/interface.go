// Package storage provides settings store selection and the file backend.
package storage

import "os"

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644
)

// Store persists setting values by name.
type Store interface {
	// GetAll returns every stored value. Values keep the type the backend
	// decoded them as; callers normalize them.
	GetAll() (map[string]any, error)
	Set(key string, value any) error
	Close() error
}
