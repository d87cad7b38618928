// Package analytics delivers toggle events to one or more sinks: the
// structured log, the SQLite event table and a Prometheus counter.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Property keys carried by every toggle event.
const (
	PropSetting   = "setting"
	PropValue     = "value"
	PropDangerous = "dangerous"
	PropSessionID = "sessionId"
)

// Sink receives events. LogEvent must not block the caller for long and must
// not report failures back.
type Sink interface {
	LogEvent(name string, properties map[string]any)
}

// Event is a delivered event with its envelope.
type Event struct {
	Name       string
	Properties map[string]any
	SessionID  string
	Timestamp  time.Time
}

// NewEvent builds an Event, lifting the session id out of the properties.
func NewEvent(name string, properties map[string]any, at time.Time) Event {
	sessionID, _ := properties[PropSessionID].(string)
	return Event{
		Name:       name,
		Properties: properties,
		SessionID:  sessionID,
		Timestamp:  at,
	}
}

// NewSessionID returns a fresh application session id.
func NewSessionID() string {
	return uuid.NewString()
}
