// Package app wires configuration, storage, analytics and the toggle
// controller into the service used by the CLI and the TUI.
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cristianoliveira/flashprefs/internal/analytics"
	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/hooks"
	"github.com/cristianoliveira/flashprefs/internal/labels"
	"github.com/cristianoliveira/flashprefs/internal/logging"
	"github.com/cristianoliveira/flashprefs/internal/settings"
	"github.com/cristianoliveira/flashprefs/internal/storage"
	"github.com/cristianoliveira/flashprefs/internal/storage/sqlite"
	"github.com/cristianoliveira/flashprefs/internal/toggle"
)

// ErrEventsUnavailable is returned by Events when no event log is open.
var ErrEventsUnavailable = stderrors.New("event log unavailable: set analytics_backend = \"sqlite\"")

// ErrUnknownSetting is returned for names outside the catalogue.
var ErrUnknownSetting = toggle.ErrInvalidSetting

// EventLog reads back recorded events.
type EventLog interface {
	RecentEvents(limit int) ([]sqlite.EventRow, error)
}

// HookRunner runs user scripts for a hook point.
type HookRunner interface {
	Run(ctx context.Context, point string, env map[string]string) error
}

// ConfirmFunc asks the user to accept a guarded toggle.
type ConfirmFunc func(message, confirmLabel string) bool

// Row is one visible line of the settings panel.
type Row struct {
	Name      string
	Label     string
	Value     bool
	Default   bool
	Dangerous bool
	// Guarded is true when toggling the row now would ask for confirmation.
	Guarded bool
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store      storage.Store
	Sink       analytics.Sink
	Labels     *labels.Labels
	Catalogue  *settings.Catalogue
	Policy     toggle.Policy
	ShowUnsafe bool
	SessionID  string
	Events     EventLog
	Logger     logging.Logger
	// Hooks runs post-toggle scripts after a value is written. Nil disables them.
	Hooks HookRunner
	// Closers run on Close after the store, in order.
	Closers []func() error
}

// Service is the settings panel without a user interface.
type Service struct {
	deps Deps
	ctrl *toggle.Controller
}

// New builds a service and loads the settings snapshot.
func New(deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("app: store is required")
	}
	if deps.Catalogue == nil {
		deps.Catalogue = settings.Default()
	}
	if deps.Labels == nil {
		l, err := labels.New("en", "")
		if err != nil {
			return nil, err
		}
		deps.Labels = l
	}
	if deps.Sink == nil {
		deps.Sink = analytics.NoopSink{}
	}
	if deps.SessionID == "" {
		deps.SessionID = analytics.NewSessionID()
	}
	if deps.Policy == (toggle.Policy{}) {
		deps.Policy = toggle.DefaultPolicy()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Noop()
	}
	s := &Service{deps: deps}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) reload() error {
	ctrl, err := toggle.New(s.deps.Store, s.deps.Sink, s.deps.SessionID,
		toggle.WithPolicy(s.deps.Policy),
		toggle.WithNormalizer(s.deps.Catalogue.Normalize),
		toggle.WithLogger(s.deps.Logger.With("component", "toggle")),
	)
	if err != nil {
		return err
	}
	s.ctrl = ctrl
	return nil
}

// NewFromConfig opens the configured store and sinks.
func NewFromConfig() (*Service, error) {
	store, err := storage.NewFromConfig()
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	deps := Deps{
		Store:      store,
		Policy:     toggle.ParsePolicy(config.Get("pending_policy", ""), config.Get("guard_target", "")),
		ShowUnsafe: config.GetBool("unsafe_mode_visible", true),
		Logger:     logging.GetGlobal(),
	}

	var recorder analytics.Recorder
	if db, ok := store.(*sqlite.SQLiteStorage); ok {
		recorder, deps.Events = db, db
	} else if config.Get("analytics_backend", "") == "sqlite" && config.GetBool("analytics_enabled", true) {
		db, err := sqlite.NewSQLiteStorage(storage.DBPath())
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("open event log: %w", err)
		}
		recorder, deps.Events = db, db
		deps.Closers = append(deps.Closers, db.Close)
	}

	if config.GetBool("hooks_enabled", false) {
		deps.Hooks = hooks.NewFromConfig()
	}

	sinks := analytics.NewFromConfig(recorder)
	deps.Sink = sinks
	deps.Closers = append(deps.Closers, sinks.Close)

	if deps.Labels, err = labels.NewFromConfig(); err != nil {
		store.Close()
		return nil, err
	}
	svc, err := New(deps)
	if err != nil {
		store.Close()
		return nil, err
	}
	return svc, nil
}

// Labels returns the localizer.
func (s *Service) Labels() *labels.Labels {
	return s.deps.Labels
}

// Snapshot returns every setting value.
func (s *Service) Snapshot() map[string]bool {
	return s.ctrl.Snapshot()
}

// Get returns one value.
func (s *Service) Get(name string) (bool, error) {
	v, ok := s.ctrl.Value(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	return v, nil
}

// Rows returns the visible settings in display order.
func (s *Service) Rows() []Row {
	defs := s.deps.Catalogue.Visible(s.deps.ShowUnsafe)
	rows := make([]Row, 0, len(defs))
	for _, d := range defs {
		value, _ := s.ctrl.Value(d.Name)
		rows = append(rows, Row{
			Name:      d.Name,
			Label:     s.deps.Labels.Setting(d),
			Value:     value,
			Default:   d.Default,
			Dangerous: d.Dangerous,
			Guarded:   s.deps.Catalogue.GuardFor(d.Name, value) != nil,
		})
	}
	return rows
}

// Pending returns the toggle awaiting confirmation, if any.
func (s *Service) Pending() (toggle.Pending, bool) {
	return s.ctrl.Pending()
}

// Request asks the controller to toggle name. Guarded settings become
// pending and wait for Confirm or Cancel.
func (s *Service) Request(name string) error {
	if !s.visible(name) {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	value, _ := s.ctrl.Value(name)
	var guard *toggle.Guard
	if spec := s.deps.Catalogue.GuardFor(name, value); spec != nil {
		message, confirm := s.deps.Labels.Guard(spec)
		guard = &toggle.Guard{Message: message, ConfirmLabel: confirm}
	}
	if err := s.ctrl.RequestToggle(name, guard); err != nil {
		return err
	}
	s.afterWrite(name, value)
	return nil
}

// Confirm applies the pending toggle.
func (s *Service) Confirm() error {
	p, ok := s.ctrl.Pending()
	if !ok {
		return nil
	}
	before, _ := s.ctrl.Value(p.Setting)
	if err := s.ctrl.ConfirmPending(); err != nil {
		return err
	}
	s.afterWrite(p.Setting, before)
	return nil
}

// Cancel drops the pending toggle.
func (s *Service) Cancel() {
	s.ctrl.CancelPending()
}

// Toggle requests a toggle and, when it is guarded, resolves it through
// confirm. A nil confirm declines. It returns the resulting value.
func (s *Service) Toggle(name string, confirm ConfirmFunc) (bool, error) {
	if err := s.Request(name); err != nil {
		return false, err
	}
	if p, ok := s.ctrl.Pending(); ok && p.Setting == name {
		if confirm != nil && confirm(p.Guard.Message, p.Guard.ConfirmLabel) {
			if err := s.Confirm(); err != nil {
				s.ctrl.CancelPending()
				return false, err
			}
		} else {
			s.ctrl.CancelPending()
		}
	}
	return s.Get(name)
}

// Reset writes every default to the store and reloads the snapshot. The
// snapshot is reloaded even when a write fails part way, so it matches
// whatever the store now holds.
func (s *Service) Reset() error {
	err := storage.Reset(s.deps.Store, s.deps.Catalogue.Defaults())
	if rerr := s.reload(); rerr != nil {
		return stderrors.Join(err, fmt.Errorf("reload settings: %w", rerr))
	}
	return err
}

// Events returns up to limit recorded events, newest first. A non-positive
// limit uses events_limit.
func (s *Service) Events(limit int) ([]sqlite.EventRow, error) {
	if s.deps.Events == nil {
		return nil, ErrEventsUnavailable
	}
	if limit <= 0 {
		limit = config.GetInt("events_limit", 20)
	}
	return s.deps.Events.RecentEvents(limit)
}

// Close releases the store and the extra resources, joining their errors.
func (s *Service) Close() error {
	errs := []error{s.deps.Store.Close()}
	for _, c := range s.deps.Closers {
		errs = append(errs, c())
	}
	return stderrors.Join(errs...)
}

// EventTime formats an event timestamp for display.
func EventTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// afterWrite runs the post-toggle hooks when name no longer holds before.
// Hook failures are logged and never undo the write.
func (s *Service) afterWrite(name string, before bool) {
	if s.deps.Hooks == nil {
		return
	}
	value, _ := s.ctrl.Value(name)
	if value == before {
		return
	}
	d, _ := s.deps.Catalogue.Lookup(name)
	err := s.deps.Hooks.Run(context.Background(), hooks.PostToggle, map[string]string{
		"FLASHPREFS_SETTING":    name,
		"FLASHPREFS_VALUE":      strconv.FormatBool(value),
		"FLASHPREFS_DANGEROUS":  strconv.FormatBool(d.Dangerous),
		"FLASHPREFS_SESSION_ID": s.deps.SessionID,
	})
	if err != nil {
		s.deps.Logger.Warn("post-toggle hooks failed", "setting", name, "error", err)
	}
}

func (s *Service) visible(name string) bool {
	d, ok := s.deps.Catalogue.Lookup(name)
	if !ok {
		return false
	}
	return !d.Dangerous || s.deps.ShowUnsafe
}
