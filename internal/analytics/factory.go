package analytics

import (
	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/logging"
)

// NewFromConfig assembles the configured sinks. rec may be nil when no
// SQLite database is open; the sqlite backend then degrades to the log sink.
func NewFromConfig(rec Recorder) MultiSink {
	if !config.GetBool("analytics_enabled", true) {
		return MultiSink{}
	}

	var sinks MultiSink
	switch config.Get("analytics_backend", "log") {
	case "sqlite":
		if rec != nil {
			sinks = append(sinks, NewRecorderSink(rec))
		} else {
			colors.Warning("analytics backend 'sqlite' has no database, logging events instead")
			sinks = append(sinks, NewLogSink(logging.GetGlobal()))
		}
	case "none":
	default:
		sinks = append(sinks, NewLogSink(logging.GetGlobal()))
	}

	if config.GetBool("metrics_enabled", false) {
		sinks = append(sinks, NewMetricsSink(config.Get("metrics_textfile", "")))
	}
	return sinks
}
