package state

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Open    key.Binding
	Close   key.Binding
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter/s", "open settings")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y/enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// contextKeys is the help.KeyMap for whatever screen is active.
type contextKeys []key.Binding

func (c contextKeys) ShortHelp() []key.Binding  { return c }
func (c contextKeys) FullHelp() [][]key.Binding { return [][]key.Binding{c} }

func (m *Model) activeKeys() contextKeys {
	switch {
	case m.confirming():
		return contextKeys{m.keys.Confirm, m.keys.Cancel}
	case m.open:
		return contextKeys{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Close, m.keys.Help, m.keys.Quit}
	default:
		return contextKeys{m.keys.Open, m.keys.Quit}
	}
}
