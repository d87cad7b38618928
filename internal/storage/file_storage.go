package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

const (
	settingsFileName       = "settings.toml"
	legacySettingsFileName = "settings.json"
	lockDirName            = ".settings.lock"
	fileHeader             = "# flashprefs settings, managed by `flashprefs settings`\n\n"
)

// FileStorage keeps settings in a flat TOML file. Writes happen under a
// directory lock and replace the file atomically.
type FileStorage struct {
	path    string
	lockDir string
}

var _ Store = (*FileStorage)(nil)

// NewFileStorage opens the TOML file at path, migrating a settings.json
// found next to it.
func NewFileStorage(path string) (*FileStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file storage: path cannot be empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		return nil, fmt.Errorf("file storage: create directory: %w", err)
	}
	fs := &FileStorage{path: path, lockDir: filepath.Join(dir, lockDirName)}
	fs.migrateLegacy(filepath.Join(dir, legacySettingsFileName))
	return fs, nil
}

// Path returns the settings file location.
func (fs *FileStorage) Path() string {
	return fs.path
}

// GetAll returns the file contents. A missing file is an empty store.
func (fs *FileStorage) GetAll() (map[string]any, error) {
	values, err := fs.read()
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Set rewrites the file with key updated.
func (fs *FileStorage) Set(key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("file storage: key cannot be empty")
	}
	return WithLock(fs.lockDir, func() error {
		values, err := fs.read()
		if err != nil {
			return err
		}
		values[key] = value
		return fs.write(values)
	})
}

// Close is a no-op; the file is only open during reads and writes.
func (fs *FileStorage) Close() error {
	return nil
}

func (fs *FileStorage) read() (map[string]any, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file storage: read %s: %w", fs.path, err)
	}
	values := map[string]any{}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("file storage: parse %s: %w", fs.path, err)
	}
	return values, nil
}

func (fs *FileStorage) write(values map[string]any) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("file storage: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("file storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = tmp.WriteString(fileHeader)
	if err == nil {
		_, err = tmp.Write(data)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("file storage: write temp file: %w", err)
	}
	if err := os.Chmod(tmpName, FileModeFile); err != nil {
		return fmt.Errorf("file storage: chmod: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		return fmt.Errorf("file storage: replace %s: %w", fs.path, err)
	}
	return nil
}

// migrateLegacy converts settings.json into the TOML file when the TOML file
// does not exist yet, then removes the JSON file.
func (fs *FileStorage) migrateLegacy(legacyPath string) {
	info, err := os.Stat(legacyPath)
	if err != nil {
		if !os.IsNotExist(err) {
			colors.Warning(fmt.Sprintf("unable to inspect legacy settings %s: %v", legacyPath, err))
		}
		return
	}
	if info.IsDir() {
		colors.Warning(fmt.Sprintf("legacy settings path %s is a directory, skipping migration", legacyPath))
		return
	}
	if _, err := os.Stat(fs.path); err == nil {
		colors.Warning(fmt.Sprintf("found both %s and %s; leaving the legacy file untouched", legacySettingsFileName, settingsFileName))
		return
	}

	data, err := os.ReadFile(legacyPath)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to read legacy settings %s: %v", legacyPath, err))
		return
	}
	values := map[string]any{}
	if err := json.Unmarshal(data, &values); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse legacy settings %s: %v", legacyPath, err))
		return
	}
	if err := WithLock(fs.lockDir, func() error { return fs.write(values) }); err != nil {
		colors.Warning(fmt.Sprintf("failed to migrate legacy settings to %s: %v", fs.path, err))
		return
	}
	if err := os.Remove(legacyPath); err != nil {
		colors.Warning(fmt.Sprintf("migrated settings to %s but could not remove %s: %v", fs.path, legacyPath, err))
		return
	}
	colors.Info(fmt.Sprintf("Migrated settings from %s to %s", legacyPath, fs.path))
}
