package analytics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logCall struct {
	msg  string
	args []any
}

type recordingLogger struct {
	infos []logCall
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(msg string, args ...any) {
	l.infos = append(l.infos, logCall{msg: msg, args: args})
}
func (l *recordingLogger) Warn(string, ...any)          {}
func (l *recordingLogger) Error(string, ...any)         {}
func (l *recordingLogger) With(...any) logging.Logger   { return l }
func (l *recordingLogger) Shutdown() error              { return nil }

type appendCall struct {
	name      string
	props     map[string]any
	sessionID string
	at        time.Time
}

type fakeRecorder struct {
	calls []appendCall
	err   error
}

func (r *fakeRecorder) AppendEvent(name string, props map[string]any, sessionID string, at time.Time) error {
	r.calls = append(r.calls, appendCall{name, props, sessionID, at})
	return r.err
}

type countingSink struct {
	count int
}

func (s *countingSink) LogEvent(string, map[string]any) { s.count++ }

type panicSink struct{}

func (panicSink) LogEvent(string, map[string]any) { panic("sink exploded") }

type closingSink struct {
	countingSink
	err error
}

func (s *closingSink) Close() error { return s.err }

func toggleProps() map[string]any {
	return map[string]any{
		PropSetting:   "unsafeMode",
		PropValue:     false,
		PropDangerous: true,
		PropSessionID: "session-1",
	}
}

func TestNewEventLiftsSessionID(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := NewEvent("Toggle setting", toggleProps(), at)

	assert.Equal(t, "Toggle setting", ev.Name)
	assert.Equal(t, "session-1", ev.SessionID)
	assert.Equal(t, at, ev.Timestamp)

	ev = NewEvent("x", map[string]any{}, at)
	assert.Empty(t, ev.SessionID)
}

func TestNewSessionIDIsUUID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLogSinkWritesSortedProperties(t *testing.T) {
	log := &recordingLogger{}
	NewLogSink(log).LogEvent("Toggle setting", toggleProps())

	require.Len(t, log.infos, 1)
	assert.Equal(t, "analytics event", log.infos[0].msg)
	assert.Equal(t, []any{
		"event", "Toggle setting",
		"dangerous", true,
		"sessionId", "session-1",
		"setting", "unsafeMode",
		"value", false,
	}, log.infos[0].args)
}

func TestRecorderSinkAppends(t *testing.T) {
	rec := &fakeRecorder{}
	sink := NewRecorderSink(rec)
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return fixed }

	sink.LogEvent("Toggle setting", toggleProps())

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "Toggle setting", rec.calls[0].name)
	assert.Equal(t, "session-1", rec.calls[0].sessionID)
	assert.Equal(t, fixed, rec.calls[0].at)
	assert.Equal(t, "unsafeMode", rec.calls[0].props[PropSetting])
}

func TestRecorderSinkSwallowsErrors(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("database is locked")}
	assert.NotPanics(t, func() {
		NewRecorderSink(rec).LogEvent("Toggle setting", toggleProps())
	})
	assert.Len(t, rec.calls, 1)
}

func TestMetricsSinkCounts(t *testing.T) {
	m := NewMetricsSink("")
	m.LogEvent("Toggle setting", toggleProps())
	m.LogEvent("Toggle setting", toggleProps())
	m.LogEvent("Toggle setting", map[string]any{PropSetting: "trim", PropDangerous: false})
	m.LogEvent("Other", map[string]any{})

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "flashprefs_settings_toggle_total", families[0].GetName())

	counts := map[string]float64{}
	for _, metric := range families[0].GetMetric() {
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		counts[labels["setting"]+"/"+labels["dangerous"]] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"unsafeMode/true": 2, "trim/false": 1}, counts)
	assert.NoError(t, m.Close())
}

func TestMetricsSinkWritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashprefs.prom")
	m := NewMetricsSink(path)
	m.LogEvent("Toggle setting", toggleProps())
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `flashprefs_settings_toggle_total{dangerous="true",setting="unsafeMode"} 1`))
}

func TestSafeRecoversPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Safe(panicSink{}).LogEvent("Toggle setting", toggleProps())
	})
	assert.IsType(t, NoopSink{}, Safe(nil))

	wrapped := Safe(panicSink{})
	assert.Equal(t, wrapped, Safe(wrapped))
}

func TestMultiSinkFansOutPastPanics(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	MultiSink{a, panicSink{}, b}.LogEvent("Toggle setting", toggleProps())
	assert.Equal(t, 1, a.count)
	assert.Equal(t, 1, b.count)
}

func TestMultiSinkCloseJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok := &closingSink{}
	bad := &closingSink{err: boom}

	err := MultiSink{ok, &countingSink{}, bad}.Close()
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, MultiSink{ok}.Close())
}

func TestNewFromConfig(t *testing.T) {
	set := func(t *testing.T, kv map[string]string) {
		t.Helper()
		before := config.All()
		for k, v := range kv {
			config.Set(k, v)
		}
		t.Cleanup(func() {
			for k := range kv {
				config.Set(k, before[k])
			}
		})
	}

	t.Run("disabled", func(t *testing.T) {
		set(t, map[string]string{"analytics_enabled": "false", "metrics_enabled": "true"})
		assert.Empty(t, NewFromConfig(&fakeRecorder{}))
	})

	t.Run("log backend", func(t *testing.T) {
		set(t, map[string]string{"analytics_enabled": "true", "analytics_backend": "log", "metrics_enabled": "false"})
		sinks := NewFromConfig(nil)
		require.Len(t, sinks, 1)
		assert.IsType(t, &LogSink{}, sinks[0])
	})

	t.Run("sqlite backend with metrics", func(t *testing.T) {
		set(t, map[string]string{"analytics_enabled": "true", "analytics_backend": "sqlite", "metrics_enabled": "true"})
		sinks := NewFromConfig(&fakeRecorder{})
		require.Len(t, sinks, 2)
		assert.IsType(t, &RecorderSink{}, sinks[0])
		assert.IsType(t, &MetricsSink{}, sinks[1])
	})

	t.Run("sqlite backend without database", func(t *testing.T) {
		set(t, map[string]string{"analytics_enabled": "true", "analytics_backend": "sqlite", "metrics_enabled": "false"})
		sinks := NewFromConfig(nil)
		require.Len(t, sinks, 1)
		assert.IsType(t, &LogSink{}, sinks[0])
	})

	t.Run("none backend", func(t *testing.T) {
		set(t, map[string]string{"analytics_enabled": "true", "analytics_backend": "none", "metrics_enabled": "false"})
		assert.Empty(t, NewFromConfig(&fakeRecorder{}))
	})
}
