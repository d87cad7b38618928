package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
)

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a logger that adds the key-value pairs to every entry.
	With(args ...any) Logger
	// Shutdown closes the log file. Loggers derived through With share it.
	Shutdown() error
}

type fileLogger struct {
	clogger  *clog.Logger
	redactor *redactor
	file     *fileHandle
}

// fileHandle is shared by a root logger and everything derived from it.
type fileHandle struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	closed bool
}

func (h *fileHandle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return len(p), nil
	}
	return h.f.Write(p)
}

func (h *fileHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.f.Close()
}

// Init opens a new JSON log file. A disabled Config yields a no-op logger.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = LogDir(); err != nil {
			return nil, fmt.Errorf("failed to determine log directory: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := rotate(dir, cfg.MaxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}

	name := fmt.Sprintf("%s%s_PID%d_%s.log",
		filePrefix,
		time.Now().Format("20060102_150405"),
		cfg.PID,
		strings.ReplaceAll(cfg.Command, " ", "_"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	handle := &fileHandle{f: f, path: path}

	clogger := clog.NewWithOptions(handle, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
	})
	clogger.SetFormatter(clog.JSONFormatter)
	clogger = clogger.With("pid", cfg.PID, "command", cfg.Command)
	return &fileLogger{clogger: clogger, redactor: newRedactor(), file: handle}, nil
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *fileLogger) Debug(msg string, args ...any) {
	l.clogger.Debug(msg, l.redactor.redact(args)...)
}

func (l *fileLogger) Info(msg string, args ...any) {
	l.clogger.Info(msg, l.redactor.redact(args)...)
}

func (l *fileLogger) Warn(msg string, args ...any) {
	l.clogger.Warn(msg, l.redactor.redact(args)...)
}

func (l *fileLogger) Error(msg string, args ...any) {
	l.clogger.Error(msg, l.redactor.redact(args)...)
}

func (l *fileLogger) With(args ...any) Logger {
	return &fileLogger{
		clogger:  l.clogger.With(l.redactor.redact(args)...),
		redactor: l.redactor,
		file:     l.file,
	}
}

func (l *fileLogger) Shutdown() error {
	return l.file.Close()
}

func (l *fileLogger) path() string {
	return l.file.path
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (n noopLogger) With(...any) Logger { return n }
func (noopLogger) Shutdown() error      { return nil }

// Noop returns a logger that discards everything.
func Noop() Logger {
	return noopLogger{}
}
