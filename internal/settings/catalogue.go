// Package settings defines the catalogue of boolean preferences shown in the
// settings panel and converts stored values into a complete snapshot.
package settings

import "sort"

// Setting names as persisted in every store backend.
const (
	ErrorReporting         = "errorReporting"
	UnmountOnSuccess       = "unmountOnSuccess"
	ValidateWriteOnSuccess = "validateWriteOnSuccess"
	Trim                   = "trim"
	UpdatesEnabled         = "updatesEnabled"
	UnsafeMode             = "unsafeMode"
)

// GuardSpec names the localized texts of a confirmation gate.
type GuardSpec struct {
	MessageID      string
	ConfirmLabelID string
}

// Definition describes one preference.
type Definition struct {
	Name    string
	Default bool
	// LabelID is the message id used by the labels package.
	LabelID string
	// Guard, when set, gates enabling the setting behind a confirmation.
	Guard *GuardSpec
	// Dangerous marks the row with a warning badge.
	Dangerous bool
}

// Catalogue is an ordered set of definitions.
type Catalogue struct {
	defs  []Definition
	index map[string]int
}

// NewCatalogue builds a catalogue preserving the given order. Duplicate names
// keep the first definition.
func NewCatalogue(defs ...Definition) *Catalogue {
	c := &Catalogue{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if _, dup := c.index[d.Name]; dup {
			continue
		}
		c.index[d.Name] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c
}

var unsafeGuard = &GuardSpec{
	MessageID:      "UnsafeModeWarning",
	ConfirmLabelID: "UnsafeModeConfirm",
}

// Default returns the panel's catalogue in display order.
func Default() *Catalogue {
	return NewCatalogue(
		Definition{Name: ErrorReporting, Default: true, LabelID: "ErrorReportingLabel"},
		Definition{Name: UnmountOnSuccess, Default: true, LabelID: "UnmountOnSuccessLabel"},
		Definition{Name: ValidateWriteOnSuccess, Default: true, LabelID: "ValidateWriteLabel"},
		Definition{Name: Trim, Default: false, LabelID: "TrimLabel"},
		Definition{Name: UpdatesEnabled, Default: true, LabelID: "UpdatesEnabledLabel"},
		Definition{Name: UnsafeMode, Default: false, LabelID: "UnsafeModeLabel", Guard: unsafeGuard, Dangerous: true},
	)
}

// Lookup returns the definition for name.
func (c *Catalogue) Lookup(name string) (Definition, bool) {
	i, ok := c.index[name]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Has reports whether name is a known setting.
func (c *Catalogue) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// All returns every definition in display order.
func (c *Catalogue) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Visible returns the definitions shown in the panel. Dangerous settings are
// hidden unless showDangerous is set.
func (c *Catalogue) Visible(showDangerous bool) []Definition {
	out := make([]Definition, 0, len(c.defs))
	for _, d := range c.defs {
		if d.Dangerous && !showDangerous {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Names returns the setting names sorted alphabetically.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.defs))
	for _, d := range c.defs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns a snapshot holding every default value.
func (c *Catalogue) Defaults() map[string]bool {
	out := make(map[string]bool, len(c.defs))
	for _, d := range c.defs {
		out[d.Name] = d.Default
	}
	return out
}

// GuardFor returns the guard that applies when toggling name away from
// current. Guards only gate enabling, so turning a guarded setting off
// needs no confirmation.
func (c *Catalogue) GuardFor(name string, current bool) *GuardSpec {
	d, ok := c.Lookup(name)
	if !ok || d.Guard == nil || current {
		return nil
	}
	return d.Guard
}
