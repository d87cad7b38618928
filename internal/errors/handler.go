// Package errors routes user-facing messages to the console or the TUI.
package errors

import (
	stderrors "errors"
	"sync"
)

// ErrorHandler receives user-facing messages.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console surface CLIHandler writes to.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// Hinter is implemented by errors that carry a remediation hint for the user.
type Hinter interface {
	Hint() string
}

// CLIHandler prints messages through a ColorOutput.
type CLIHandler struct {
	colors     ColorOutput
	mu         sync.Mutex
	inHandling bool
}

var _ ErrorHandler = (*CLIHandler)(nil)

// NewCLIHandler creates a handler writing to colors.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	if h.inHandling {
		h.mu.Unlock()
		h.colors.Error(msg)
		return
	}
	h.inHandling = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.inHandling = false
		h.mu.Unlock()
	}()

	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) {
	h.colors.Warning(msg)
}

func (h *CLIHandler) Info(msg string) {
	h.colors.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	h.colors.Success(msg)
}

// Handle reports err as an error and, when any error in its chain carries a
// hint, prints the hint as info. A nil err is ignored.
func (h *CLIHandler) Handle(err error) {
	if err == nil {
		return
	}
	h.Error(err.Error())
	if hint := HintOf(err); hint != "" {
		h.Info(hint)
	}
}

// HintOf returns the first hint found in err's chain.
func HintOf(err error) string {
	var hinter Hinter
	if stderrors.As(err, &hinter) {
		return hinter.Hint()
	}
	return ""
}
