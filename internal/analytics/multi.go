package analytics

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/cristianoliveira/flashprefs/internal/logging"
)

// NoopSink drops every event.
type NoopSink struct{}

// LogEvent implements Sink.
func (NoopSink) LogEvent(string, map[string]any) {}

// MultiSink fans an event out to each sink in order.
type MultiSink []Sink

// LogEvent implements Sink. A panicking sink does not stop the others.
func (m MultiSink) LogEvent(name string, properties map[string]any) {
	for _, s := range m {
		Safe(s).LogEvent(name, properties)
	}
}

// Close closes every sink that implements io.Closer and joins the errors.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return stderrors.Join(errs...)
}

type safeSink struct {
	inner Sink
}

// Safe wraps s so that a panic inside LogEvent is logged and swallowed.
func Safe(s Sink) Sink {
	if s == nil {
		return NoopSink{}
	}
	if _, ok := s.(safeSink); ok {
		return s
	}
	return safeSink{inner: s}
}

func (s safeSink) LogEvent(name string, properties map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("analytics sink panicked", "event", name, "panic", fmt.Sprint(r))
		}
	}()
	s.inner.LogEvent(name, properties)
}
