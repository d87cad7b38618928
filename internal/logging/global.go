package logging

import (
	"sync"

	"github.com/cristianoliveira/flashprefs/internal/colors"
)

var (
	globalLogger   Logger
	globalLoggerMu sync.RWMutex
)

// InitGlobal replaces the global logger with one built from the loaded
// configuration and mirrors console output into it.
func InitGlobal() error {
	l, err := Init(FromGlobalConfig())
	if err != nil {
		return err
	}
	globalLoggerMu.Lock()
	previous := globalLogger
	globalLogger = l
	globalLoggerMu.Unlock()
	if previous != nil {
		previous.Shutdown()
	}
	colors.SetLogger(l)
	if path := CurrentLogFile(); path != "" {
		colors.Debug("logging to file:", path)
	}
	return nil
}

// GetGlobal returns the global logger, or a no-op logger if not initialized.
func GetGlobal() Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if globalLogger == nil {
		return noopLogger{}
	}
	return globalLogger
}

// Debug logs through the global logger.
func Debug(msg string, args ...any) { GetGlobal().Debug(msg, args...) }

// Info logs through the global logger.
func Info(msg string, args ...any) { GetGlobal().Info(msg, args...) }

// Warn logs through the global logger.
func Warn(msg string, args ...any) { GetGlobal().Warn(msg, args...) }

// Error logs through the global logger.
func Error(msg string, args ...any) { GetGlobal().Error(msg, args...) }

// With derives a logger from the global one.
func With(args ...any) Logger { return GetGlobal().With(args...) }

// ShutdownGlobal closes the global logger and detaches it from console output.
func ShutdownGlobal() error {
	globalLoggerMu.Lock()
	l := globalLogger
	globalLogger = nil
	globalLoggerMu.Unlock()
	colors.SetLogger(nil)
	if l == nil {
		return nil
	}
	return l.Shutdown()
}

// CurrentLogFile returns the active log file path, or "" when logging is off.
func CurrentLogFile() string {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if fl, ok := globalLogger.(*fileLogger); ok {
		return fl.path()
	}
	return ""
}
