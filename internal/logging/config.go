// Package logging provides structured file logging for flashprefs.
package logging

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/flashprefs/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Enabled bool
	// Level is the minimum level recorded: debug, info, warn or error.
	Level string
	// MaxFiles bounds how many flashprefs_*.log files are kept in Dir.
	MaxFiles int
	// Dir overrides the log directory. Empty means LogDir().
	Dir     string
	Command string
	PID     int
}

// DefaultConfig returns a disabled Config.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromGlobalConfig creates a logging Config from the loaded configuration.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", cfg.Level)
	cfg.MaxFiles = config.GetInt("logging_max_files", cfg.MaxFiles)
	// debug wins over quiet
	switch {
	case config.GetBool("debug", false):
		cfg.Level = "debug"
	case config.GetBool("quiet", false):
		cfg.Level = "error"
	}
	return cfg
}

// LogDir returns {state_dir}/logs when it is writable and falls back to
// {tmp}/flashprefs/logs otherwise.
func LogDir() (string, error) {
	if stateDir := config.Get("state_dir", ""); stateDir != "" {
		logDir := filepath.Join(stateDir, "logs")
		if err := os.MkdirAll(logDir, 0700); err == nil && writable(logDir) {
			return logDir, nil
		}
	}
	fallback := filepath.Join(os.TempDir(), "flashprefs", "logs")
	if err := os.MkdirAll(fallback, 0700); err != nil {
		return "", err
	}
	return fallback, nil
}

func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
