// Package state holds the bubbletea model of the settings panel.
package state

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/flashprefs/internal/app"
	"github.com/cristianoliveira/flashprefs/internal/errors"
	"github.com/cristianoliveira/flashprefs/internal/labels"
	"github.com/cristianoliveira/flashprefs/internal/toggle"
)

const defaultViewportWidth = 72

// Service is the part of app.Service the panel drives.
type Service interface {
	Rows() []app.Row
	Request(name string) error
	Confirm() error
	Cancel()
	Pending() (toggle.Pending, bool)
	Labels() *labels.Labels
}

// Model is the settings panel. It starts closed, showing only the
// Settings button.
type Model struct {
	svc          Service
	keys         keyMap
	help         help.Model
	errorHandler *errors.TUIHandler

	open   bool
	cursor int
	rows   []app.Row
	width  int

	status     string
	statusType errors.MessageType
}

// NewModel creates a closed panel over svc.
func NewModel(svc Service) *Model {
	if svc == nil {
		panic("state: service must not be nil")
	}
	m := &Model{
		svc:   svc,
		keys:  defaultKeyMap(),
		help:  help.New(),
		width: defaultViewportWidth,
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.status = msg.Text
		m.statusType = msg.Type
	})
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

// IsOpen reports whether the settings modal is shown.
func (m *Model) IsOpen() bool {
	return m.open
}

// Cursor returns the selected row index.
func (m *Model) Cursor() int {
	return m.cursor
}

// Status returns the current status line text and type.
func (m *Model) Status() (string, errors.MessageType) {
	return m.status, m.statusType
}

func (m *Model) confirming() bool {
	_, ok := m.svc.Pending()
	return ok
}

func (m *Model) refresh() {
	m.rows = m.svc.Rows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch {
	case m.confirming():
		m.handleConfirmation(msg)
		return m, nil
	case m.open:
		return m.handleModalKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Open):
		m.open = true
		m.refresh()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.open = false
		m.errorHandler.Clear()
		m.status = ""
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleConfirmation(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		p, _ := m.svc.Pending()
		if err := m.svc.Confirm(); err != nil {
			// The toggle stays pending so the user can retry or cancel.
			m.errorHandler.Handle(err)
			return
		}
		m.refresh()
		m.reportValue(p.Setting)
	case key.Matches(msg, m.keys.Cancel):
		m.svc.Cancel()
		m.errorHandler.Clear()
		m.status = ""
	}
}

func (m *Model) toggleSelected() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	if err := m.svc.Request(row.Name); err != nil {
		m.errorHandler.Handle(err)
		m.refresh()
		return
	}
	if m.confirming() {
		return
	}
	m.refresh()
	m.reportValue(row.Name)
}

func (m *Model) reportValue(name string) {
	for _, r := range m.rows {
		if r.Name == name {
			state := "off"
			if r.Value {
				state = "on"
			}
			m.errorHandler.Success(fmt.Sprintf("%s: %s", r.Label, state))
			return
		}
	}
}
