package app

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ProgramRunner runs a bubbletea program. Tests replace it to avoid a
// terminal.
type ProgramRunner interface {
	Run(model tea.Model) error
}

// DefaultProgramRunner wraps tea.NewProgram with the alternate screen.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts the program and blocks until it exits.
func (r *DefaultProgramRunner) Run(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
