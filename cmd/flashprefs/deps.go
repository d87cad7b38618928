package main

import (
	"github.com/cristianoliveira/flashprefs/internal/app"
	"github.com/cristianoliveira/flashprefs/internal/labels"
	"github.com/cristianoliveira/flashprefs/internal/storage/sqlite"
	tuiapp "github.com/cristianoliveira/flashprefs/internal/tui/app"
	"github.com/cristianoliveira/flashprefs/internal/version"
)

// settingsService is the slice of app.Service the commands use.
type settingsService interface {
	Rows() []app.Row
	Snapshot() map[string]bool
	Get(name string) (bool, error)
	Toggle(name string, confirm app.ConfirmFunc) (bool, error)
	Reset() error
	Events(limit int) ([]sqlite.EventRow, error)
	Labels() *labels.Labels
	Close() error
}

// serviceOpener opens the service once configuration is loaded, which
// happens in the root command's pre-run hook.
type serviceOpener func() (settingsService, error)

func openService() (settingsService, error) {
	return app.NewFromConfig()
}

type buildInfo struct{}

func (buildInfo) Version() string { return version.String() }

var (
	defaultOpener    serviceOpener = openService
	defaultTUIClient               = tuiapp.NewDefaultClient(nil, nil)
)
