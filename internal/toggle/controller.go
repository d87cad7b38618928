// Package toggle implements the toggle-confirmation controller: it owns the
// in-memory settings snapshot, gates dangerous toggles behind a single
// pending confirmation, and writes accepted changes through to the store
// before updating the snapshot.
package toggle

import (
	"fmt"

	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/logging"
)

// EventToggleSetting is the analytics event emitted for every toggle request.
const EventToggleSetting = "Toggle setting"

// Store persists setting values.
type Store interface {
	GetAll() (map[string]any, error)
	Set(key string, value any) error
}

// Sink receives analytics events. Implementations must not block; any
// failure is their own business.
type Sink interface {
	LogEvent(name string, properties map[string]any)
}

// Normalizer turns raw store contents into the snapshot the controller owns.
// Its keys define the set of valid settings.
type Normalizer func(raw map[string]any) map[string]bool

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the pending and guard-target rules.
func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithNormalizer replaces the default normalizer, which keeps only values
// that are already booleans.
func WithNormalizer(n Normalizer) Option {
	return func(c *Controller) { c.normalize = n }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller mediates toggle requests. It is not safe for concurrent use;
// callers drive it from a single event loop.
type Controller struct {
	state     State
	store     Store
	sink      Sink
	sessionID string
	policy    Policy
	normalize Normalizer
	log       logging.Logger
}

// New reads the store once and returns a controller over that snapshot.
func New(store Store, sink Sink, sessionID string, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	c := &Controller{
		store:     store,
		sink:      sink,
		sessionID: sessionID,
		policy:    DefaultPolicy(),
		normalize: boolsOnly,
		log:       logging.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	raw, err := store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	c.state = NewState(c.normalize(raw))
	c.log.Debug("settings snapshot loaded", "settings", len(c.state.snapshot))
	return c, nil
}

// State returns the current immutable state.
func (c *Controller) State() State {
	return c.state
}

// Snapshot returns a copy of the current setting values.
func (c *Controller) Snapshot() map[string]bool {
	return c.state.Snapshot()
}

// Value returns the current value of setting.
func (c *Controller) Value(setting string) (bool, bool) {
	return c.state.Value(setting)
}

// Pending returns the toggle awaiting confirmation, if any.
func (c *Controller) Pending() (Pending, bool) {
	return c.state.Pending()
}

// RequestToggle records the request as an analytics event and then either
// flips the setting through the store or, when guard is set, parks it as
// pending.
func (c *Controller) RequestToggle(setting string, guard *Guard) error {
	value, ok := c.state.Value(setting)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSetting, setting)
	}

	c.emit(setting, value, guard != nil)

	tr, err := Request(c.state, setting, guard, c.policy)
	if err != nil {
		c.log.Warn("toggle request rejected", "setting", setting, "error", err)
		return err
	}
	if err := c.apply(tr); err != nil {
		return err
	}
	if p, ok := c.state.Pending(); ok {
		c.log.Info("toggle awaiting confirmation", "setting", p.Setting, "target", p.Target)
	}
	return nil
}

// ConfirmPending writes the pending target and adopts it. It does nothing
// when no toggle is pending. On a failed write the toggle stays pending so
// the caller can retry or cancel.
func (c *Controller) ConfirmPending() error {
	p, ok := c.state.Pending()
	if !ok {
		return nil
	}
	if err := c.apply(Confirm(c.state)); err != nil {
		return err
	}
	c.log.Info("guarded toggle confirmed", "setting", p.Setting, "value", p.Target)
	return nil
}

// CancelPending drops the pending toggle without touching the store.
func (c *Controller) CancelPending() {
	if p, ok := c.state.Pending(); ok {
		c.log.Info("guarded toggle cancelled", "setting", p.Setting)
	}
	c.state = Cancel(c.state)
}

func (c *Controller) apply(tr Transition) error {
	if tr.Write != nil {
		if err := c.store.Set(tr.Write.Setting, tr.Write.Value); err != nil {
			werr := &StoreWriteError{Setting: tr.Write.Setting, Value: tr.Write.Value, Err: err}
			c.log.Error("store write failed", "setting", werr.Setting, "value", werr.Value, "error", err)
			return werr
		}
		colors.StructuredDebug("toggle", "write", "ok", nil, tr.Write.Setting, map[string]interface{}{"value": tr.Write.Value})
	}
	c.state = tr.Next
	return nil
}

func (c *Controller) emit(setting string, value, dangerous bool) {
	if c.sink == nil {
		return
	}
	// analytics never affects the toggle outcome
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("analytics sink panicked", "event", EventToggleSetting, "panic", fmt.Sprint(r))
		}
	}()
	c.sink.LogEvent(EventToggleSetting, map[string]any{
		"setting":   setting,
		"value":     value,
		"dangerous": dangerous,
		"sessionId": c.sessionID,
	})
}

func boolsOnly(raw map[string]any) map[string]bool {
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}
