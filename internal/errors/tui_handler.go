package errors

import (
	"sync"
	"time"
)

// maxMessages bounds the history kept by TUIHandler.
const maxMessages = 50

// MessageType classifies a status line message.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// Message is one status line entry.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// TUIHandler stores messages for the TUI status line and notifies onMessage.
type TUIHandler struct {
	mu        sync.RWMutex
	messages  []Message
	onMessage func(msg Message)
	now       func() time.Time
}

var _ ErrorHandler = (*TUIHandler)(nil)

// NewTUIHandler creates a handler. onMessage may be nil.
func NewTUIHandler(onMessage func(msg Message)) *TUIHandler {
	return &TUIHandler{onMessage: onMessage, now: time.Now}
}

func (h *TUIHandler) Error(msg string)   { h.add(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.add(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.add(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.add(msg, MessageTypeSuccess) }

// Handle records err as an error message with its hint appended.
func (h *TUIHandler) Handle(err error) {
	if err == nil {
		return
	}
	text := err.Error()
	if hint := HintOf(err); hint != "" {
		text += " (" + hint + ")"
	}
	h.Error(text)
}

func (h *TUIHandler) add(text string, msgType MessageType) {
	h.mu.Lock()
	msg := Message{Text: text, Type: msgType, Timestamp: h.now()}
	h.messages = append(h.messages, msg)
	if len(h.messages) > maxMessages {
		h.messages = append([]Message(nil), h.messages[len(h.messages)-maxMessages:]...)
	}
	callback := h.onMessage
	h.mu.Unlock()

	if callback != nil {
		callback(msg)
	}
}

// Latest returns the most recent message.
func (h *TUIHandler) Latest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// All returns a copy of the stored messages, oldest first.
func (h *TUIHandler) All() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Clear drops every stored message.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}
