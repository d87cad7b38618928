package analytics

import (
	"sort"

	"github.com/cristianoliveira/flashprefs/internal/logging"
)

// LogSink writes events to the structured logger at info level.
type LogSink struct {
	log logging.Logger
}

// NewLogSink returns a sink over log. A nil logger uses the global one.
func NewLogSink(log logging.Logger) *LogSink {
	return &LogSink{log: log}
}

// LogEvent implements Sink.
func (s *LogSink) LogEvent(name string, properties map[string]any) {
	log := s.log
	if log == nil {
		log = logging.GetGlobal()
	}
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, 2+2*len(keys))
	args = append(args, "event", name)
	for _, k := range keys {
		args = append(args, k, properties[k])
	}
	log.Info("analytics event", args...)
}
