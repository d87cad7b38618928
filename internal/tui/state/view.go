package state

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/flashprefs/internal/labels"
	"github.com/cristianoliveira/flashprefs/internal/tui/render"
)

// View implements tea.Model.
func (m *Model) View() string {
	l := m.svc.Labels()
	title := l.Message(labels.SettingsTitle)

	if !m.open {
		return lipgloss.JoinVertical(lipgloss.Left,
			render.Button(title, true),
			"",
			m.help.View(m.activeKeys()),
		)
	}

	var body string
	if p, ok := m.svc.Pending(); ok {
		body = render.Dialog(render.DialogState{
			Message:      p.Guard.Message,
			ConfirmLabel: p.Guard.ConfirmLabel,
			CancelLabel:  l.Message(labels.CancelLabel),
			Width:        m.width - 10,
		})
	} else {
		lines := make([]string, 0, len(m.rows))
		badge := l.Message(labels.DangerousBadge)
		for i, r := range m.rows {
			lines = append(lines, render.Row(render.RowState{
				Label:     r.Label,
				Value:     r.Value,
				Dangerous: r.Dangerous,
				Badge:     badge,
				Selected:  i == m.cursor,
				Width:     m.width - 8,
			}))
		}
		body = strings.Join(lines, "\n")
	}

	parts := []string{render.Modal(title, body, m.width-4)}
	if status := render.Status(m.status, m.statusType); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.help.View(m.activeKeys()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
