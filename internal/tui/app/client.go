// Package app provides TUI application adapters for command wiring.
package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/flashprefs/internal/colors"
	core "github.com/cristianoliveira/flashprefs/internal/app"
	"github.com/cristianoliveira/flashprefs/internal/tui/state"
)

// Service is what the panel needs plus cleanup.
type Service interface {
	state.Service
	Close() error
}

// ServiceOpener opens the settings service.
type ServiceOpener func() (Service, error)

// Client defines dependencies needed by the tui command.
type Client interface {
	OpenService() (Service, error)
	CreateModel(svc Service) tea.Model
	RunProgram(model tea.Model) error
}

// DefaultClient is the adapter-based implementation used by CLI wiring.
type DefaultClient struct {
	opener        ServiceOpener
	programRunner ProgramRunner
}

// NewDefaultClient creates a client. A nil opener uses app.NewFromConfig and
// a nil runner uses DefaultProgramRunner.
func NewDefaultClient(opener ServiceOpener, programRunner ProgramRunner) *DefaultClient {
	if opener == nil {
		opener = func() (Service, error) { return core.NewFromConfig() }
	}
	if programRunner == nil {
		programRunner = NewDefaultProgramRunner()
	}
	return &DefaultClient{opener: opener, programRunner: programRunner}
}

// OpenService opens the configured service.
func (d *DefaultClient) OpenService() (Service, error) {
	return d.opener()
}

// CreateModel builds the panel over svc.
func (d *DefaultClient) CreateModel(svc Service) tea.Model {
	return state.NewModel(svc)
}

// RunProgram starts the bubbletea program using the configured ProgramRunner.
func (d *DefaultClient) RunProgram(model tea.Model) error {
	if err := d.programRunner.Run(model); err != nil {
		colors.Error(fmt.Sprintf("Error running TUI: %v", err))
		return err
	}
	return nil
}
