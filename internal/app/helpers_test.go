package app

import (
	"time"

	"github.com/cristianoliveira/flashprefs/internal/analytics"
	"github.com/cristianoliveira/flashprefs/internal/storage/sqlite"
)

type recorderSink struct {
	db *sqlite.SQLiteStorage
	at time.Time
}

// LogEvent spaces events one second apart so ordering is deterministic.
func (r *recorderSink) LogEvent(name string, props map[string]any) {
	if r.at.IsZero() {
		r.at = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	}
	r.at = r.at.Add(time.Second)
	ev := analytics.NewEvent(name, props, r.at)
	_ = r.db.AppendEvent(ev.Name, ev.Properties, ev.SessionID, ev.Timestamp)
}
