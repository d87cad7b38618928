package analytics

import (
	"time"

	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/logging"
)

// Recorder persists events. The SQLite store implements it.
type Recorder interface {
	AppendEvent(name string, props map[string]any, sessionID string, at time.Time) error
}

// RecorderSink appends every event to a Recorder. Failed appends are logged
// and dropped.
type RecorderSink struct {
	rec Recorder
	now func() time.Time
}

// NewRecorderSink returns a sink writing to rec.
func NewRecorderSink(rec Recorder) *RecorderSink {
	return &RecorderSink{rec: rec, now: time.Now}
}

// LogEvent implements Sink.
func (s *RecorderSink) LogEvent(name string, properties map[string]any) {
	ev := NewEvent(name, properties, s.now().UTC())
	if err := s.rec.AppendEvent(ev.Name, ev.Properties, ev.SessionID, ev.Timestamp); err != nil {
		logging.Warn("failed to record analytics event", "event", name, "error", err)
		colors.Debug("analytics: record " + name + ": " + err.Error())
	}
}
