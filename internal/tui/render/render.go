// Package render draws the settings panel pieces with lipgloss.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/errors"
)

const (
	checkboxOn      = "[x]"
	checkboxOff     = "[ ]"
	cursorSymbol    = "›"
	defaultWidth    = 72
	minContentWidth = 20
	modalPadding    = 2
)

// RowState defines the inputs needed to render a setting row.
type RowState struct {
	Label     string
	Value     bool
	Dangerous bool
	Badge     string
	Selected  bool
	Width     int
}

// DialogState defines the inputs needed to render the confirmation dialog.
type DialogState struct {
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Width        int
}

// Button renders the closed-panel entry point.
func Button(title string, focused bool) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	if focused {
		style = style.BorderForeground(lipgloss.Color(ansiColorNumber(colors.Blue))).Bold(true)
	}
	return style.Render("⚙ " + title)
}

// Row renders one setting line: cursor, checkbox, label and badge.
func Row(state RowState) string {
	cursor := " "
	if state.Selected {
		cursor = cursorSymbol
	}
	box := checkboxOff
	if state.Value {
		box = checkboxOn
	}
	line := cursor + " " + box + " " + state.Label
	if state.Dangerous && state.Badge != "" {
		line += " " + Badge(state.Badge)
	}

	style := lipgloss.NewStyle().MaxWidth(contentWidth(state.Width))
	if state.Selected {
		style = style.Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	}
	return style.Render(line)
}

// Badge renders the warning marker shown next to dangerous settings.
func Badge(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ansiColorNumber(colors.Red))).
		Bold(true).
		Render("⚠ " + text)
}

// Modal frames body with a title inside a border.
func Modal(title, body string, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).MarginBottom(1)
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, modalPadding).
		Width(contentWidth(width))
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body))
}

// Dialog renders the guard confirmation with its two choices.
func Dialog(state DialogState) string {
	width := contentWidth(state.Width)
	message := lipgloss.NewStyle().Width(width - 2*modalPadding).Render(state.Message)
	confirm := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ansiColorNumber(colors.Red))).
		Render("[y] " + state.ConfirmLabel)
	cancel := lipgloss.NewStyle().Render("[n] " + state.CancelLabel)
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, confirm, "   ", cancel)

	frame := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(ansiColorNumber(colors.Yellow))).
		Padding(1, modalPadding).
		Width(width)
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, message, "", buttons))
}

// Status renders the status line for a handler message.
func Status(text string, kind errors.MessageType) string {
	if text == "" {
		return ""
	}
	prefix, color := "", colors.Blue
	switch kind {
	case errors.MessageTypeError:
		prefix, color = "✗ ", colors.Red
	case errors.MessageTypeWarning:
		prefix, color = "! ", colors.Yellow
	case errors.MessageTypeSuccess:
		prefix, color = "✓ ", colors.Green
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ansiColorNumber(color))).
		Render(prefix + strings.TrimSpace(text))
}

func contentWidth(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	if width < minContentWidth {
		return minContentWidth
	}
	return width
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// For example, "\033[0;34m" returns "34".
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
