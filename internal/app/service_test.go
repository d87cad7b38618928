package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/flashprefs/internal/settings"
	"github.com/cristianoliveira/flashprefs/internal/storage"
	"github.com/cristianoliveira/flashprefs/internal/storage/sqlite"
	"github.com/cristianoliveira/flashprefs/internal/toggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type event struct {
	name  string
	props map[string]any
}

type recordingSink struct {
	events []event
}

func (r *recordingSink) LogEvent(name string, props map[string]any) {
	r.events = append(r.events, event{name, props})
}

func newFileService(t *testing.T, showUnsafe bool) (*Service, *storage.FileStorage, *recordingSink) {
	t.Helper()
	store, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)
	sink := &recordingSink{}
	svc, err := New(Deps{Store: store, Sink: sink, ShowUnsafe: showUnsafe, SessionID: "session-1"})
	require.NoError(t, err)
	return svc, store, sink
}

func always(answer bool) ConfirmFunc {
	return func(string, string) bool { return answer }
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Deps{})
	require.Error(t, err)
}

func TestSnapshotFillsDefaults(t *testing.T) {
	svc, _, _ := newFileService(t, true)
	assert.Equal(t, settings.Default().Defaults(), svc.Snapshot())
}

func TestRowsFollowCatalogueOrder(t *testing.T) {
	svc, _, _ := newFileService(t, true)

	rows := svc.Rows()
	require.Len(t, rows, 6)
	assert.Equal(t, settings.ErrorReporting, rows[0].Name)
	assert.Equal(t, "Anonymously report errors and usage statistics to balena.io", rows[0].Label)
	last := rows[5]
	assert.Equal(t, settings.UnsafeMode, last.Name)
	assert.True(t, last.Dangerous)
	assert.True(t, last.Guarded)
	assert.False(t, last.Value)
}

func TestRowsHideUnsafeMode(t *testing.T) {
	svc, _, _ := newFileService(t, false)
	for _, r := range svc.Rows() {
		assert.NotEqual(t, settings.UnsafeMode, r.Name)
	}
	err := svc.Request(settings.UnsafeMode)
	assert.ErrorIs(t, err, ErrUnknownSetting)
}

func TestToggleUnguardedPersists(t *testing.T) {
	svc, store, sink := newFileService(t, true)

	value, err := svc.Toggle(settings.Trim, nil)
	require.NoError(t, err)
	assert.True(t, value)

	stored, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, true, stored[settings.Trim])

	require.Len(t, sink.events, 1)
	assert.Equal(t, toggle.EventToggleSetting, sink.events[0].name)
	assert.Equal(t, map[string]any{
		"setting":   settings.Trim,
		"value":     false,
		"dangerous": false,
		"sessionId": "session-1",
	}, sink.events[0].props)
}

func TestToggleGuardedConfirmed(t *testing.T) {
	svc, store, sink := newFileService(t, true)

	var gotMessage, gotLabel string
	value, err := svc.Toggle(settings.UnsafeMode, func(message, label string) bool {
		gotMessage, gotLabel = message, label
		return true
	})
	require.NoError(t, err)
	assert.True(t, value)
	assert.Equal(t, "Enable unsafe mode", gotLabel)
	assert.Contains(t, gotMessage, "overwrite your system drives")

	stored, _ := store.GetAll()
	assert.Equal(t, true, stored[settings.UnsafeMode])
	require.Len(t, sink.events, 1)
	assert.Equal(t, true, sink.events[0].props["dangerous"])

	_, pending := svc.Pending()
	assert.False(t, pending)
}

func TestToggleGuardedDeclined(t *testing.T) {
	svc, store, _ := newFileService(t, true)

	value, err := svc.Toggle(settings.UnsafeMode, always(false))
	require.NoError(t, err)
	assert.False(t, value)

	stored, _ := store.GetAll()
	assert.NotContains(t, stored, settings.UnsafeMode)
	_, pending := svc.Pending()
	assert.False(t, pending)
}

func TestDisablingUnsafeModeIsNotGuarded(t *testing.T) {
	svc, _, sink := newFileService(t, true)
	_, err := svc.Toggle(settings.UnsafeMode, always(true))
	require.NoError(t, err)

	asked := false
	value, err := svc.Toggle(settings.UnsafeMode, func(string, string) bool {
		asked = true
		return true
	})
	require.NoError(t, err)
	assert.False(t, value)
	assert.False(t, asked)
	require.Len(t, sink.events, 2)
	assert.Equal(t, false, sink.events[1].props["dangerous"])
}

func TestRequestConfirmCancel(t *testing.T) {
	svc, _, _ := newFileService(t, true)

	require.NoError(t, svc.Request(settings.UnsafeMode))
	p, ok := svc.Pending()
	require.True(t, ok)
	assert.Equal(t, settings.UnsafeMode, p.Setting)
	assert.True(t, p.Target)

	svc.Cancel()
	_, ok = svc.Pending()
	assert.False(t, ok)

	require.NoError(t, svc.Request(settings.UnsafeMode))
	require.NoError(t, svc.Confirm())
	v, err := svc.Get(settings.UnsafeMode)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestToggleUnknownSetting(t *testing.T) {
	svc, _, sink := newFileService(t, true)

	_, err := svc.Toggle("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownSetting)
	assert.Empty(t, sink.events)

	_, err = svc.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownSetting)
}

func TestToggleStoreFailureKeepsValue(t *testing.T) {
	store := new(storage.MockStore)
	store.On("GetAll").Return(map[string]any{settings.Trim: false}, nil)
	store.On("Set", settings.Trim, true).Return(errors.New("disk full"))

	svc, err := New(Deps{Store: store, ShowUnsafe: true})
	require.NoError(t, err)

	_, err = svc.Toggle(settings.Trim, nil)
	var werr *toggle.StoreWriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, settings.Trim, werr.Setting)

	v, _ := svc.Get(settings.Trim)
	assert.False(t, v)
}

func TestConfirmFailureLeavesNothingPending(t *testing.T) {
	store := new(storage.MockStore)
	store.On("GetAll").Return(map[string]any{}, nil)
	store.On("Set", settings.UnsafeMode, true).Return(errors.New("read-only"))

	svc, err := New(Deps{Store: store, ShowUnsafe: true})
	require.NoError(t, err)

	_, err = svc.Toggle(settings.UnsafeMode, always(true))
	require.Error(t, err)
	_, pending := svc.Pending()
	assert.False(t, pending)
	v, _ := svc.Get(settings.UnsafeMode)
	assert.False(t, v)
}

func TestResetRestoresDefaults(t *testing.T) {
	svc, store, _ := newFileService(t, true)
	_, err := svc.Toggle(settings.Trim, nil)
	require.NoError(t, err)
	_, err = svc.Toggle(settings.ErrorReporting, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Reset())
	assert.Equal(t, settings.Default().Defaults(), svc.Snapshot())

	stored, _ := store.GetAll()
	assert.Len(t, stored, 6)
	assert.Equal(t, false, stored[settings.Trim])
}

func TestResetPartialFailureKeepsSnapshotInSync(t *testing.T) {
	store := new(storage.MockStore)
	store.On("GetAll").Return(map[string]any{
		settings.ErrorReporting: false,
		settings.Trim:           true,
	}, nil).Once()
	store.On("Set", settings.ErrorReporting, true).Return(nil)
	store.On("Set", settings.Trim, false).Return(errors.New("disk full"))
	store.On("GetAll").Return(map[string]any{
		settings.ErrorReporting: true,
		settings.Trim:           true,
	}, nil).Once()

	svc, err := New(Deps{Store: store, ShowUnsafe: true})
	require.NoError(t, err)

	err = svc.Reset()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset trim: disk full")

	v, _ := svc.Get(settings.ErrorReporting)
	assert.True(t, v, "snapshot follows the write that landed")
	v, _ = svc.Get(settings.Trim)
	assert.True(t, v, "snapshot keeps the value the store still holds")
	store.AssertExpectations(t)
}

func TestResetReportsReloadFailure(t *testing.T) {
	store := new(storage.MockStore)
	store.On("GetAll").Return(map[string]any{}, nil).Once()
	store.On("Set", mock.Anything, mock.Anything).Return(nil)
	store.On("GetAll").Return(nil, errors.New("corrupt")).Once()

	svc, err := New(Deps{Store: store})
	require.NoError(t, err)

	err = svc.Reset()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reload settings: load settings: corrupt")
}

type panickingSink struct{}

func (panickingSink) LogEvent(string, map[string]any) { panic("sink down") }

func TestSinkPanicDoesNotAffectService(t *testing.T) {
	store, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)
	svc, err := New(Deps{Store: store, Sink: panickingSink{}})
	require.NoError(t, err)

	value, err := svc.Toggle(settings.Trim, nil)
	require.NoError(t, err)
	assert.True(t, value)
}

func TestLoadFailure(t *testing.T) {
	store := new(storage.MockStore)
	store.On("GetAll").Return(nil, errors.New("corrupt"))

	_, err := New(Deps{Store: store})
	require.Error(t, err)
}

func TestEventsUnavailable(t *testing.T) {
	svc, _, _ := newFileService(t, true)
	_, err := svc.Events(10)
	assert.ErrorIs(t, err, ErrEventsUnavailable)
}

func TestEventsFromSQLite(t *testing.T) {
	db, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "flashprefs.db"))
	require.NoError(t, err)

	sink := &recorderSink{db: db}
	svc, err := New(Deps{Store: db, Sink: sink, Events: db, SessionID: "s-1"})
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Toggle(settings.Trim, nil)
	require.NoError(t, err)
	_, err = svc.Toggle(settings.Trim, nil)
	require.NoError(t, err)

	rows, err := svc.Events(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, toggle.EventToggleSetting, rows[0].Name)
	assert.Equal(t, "s-1", rows[0].SessionID)
	assert.Equal(t, true, rows[0].Properties["value"])
}

func TestCloseRunsClosers(t *testing.T) {
	store := new(storage.MockStore)
	store.On("GetAll").Return(map[string]any{}, nil)
	store.On("Close").Return(nil)

	boom := errors.New("flush failed")
	calls := 0
	svc, err := New(Deps{Store: store, Closers: []func() error{
		func() error { calls++; return nil },
		func() error { calls++; return boom },
	}})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Close(), boom)
	assert.Equal(t, 2, calls)
	store.AssertCalled(t, "Close")
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}
