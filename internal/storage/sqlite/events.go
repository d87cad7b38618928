package sqlite

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Properties is an event's property map, stored as a JSON column.
type Properties map[string]any

// Scan implements sql.Scanner.
func (p *Properties) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = Properties{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported properties type %T", v)
	}
	out := Properties{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode properties: %w", err)
	}
	*p = out
	return nil
}

// Value implements driver.Valuer.
func (p Properties) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]any(p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// EventRow is one recorded analytics event.
type EventRow struct {
	ID         string     `db:"id"`
	Name       string     `db:"name"`
	SessionID  string     `db:"session_id"`
	Properties Properties `db:"properties"`
	CreatedAt  time.Time  `db:"created_at"`
}

// AppendEvent records an event.
func (s *SQLiteStorage) AppendEvent(name string, props map[string]any, sessionID string, at time.Time) error {
	row := EventRow{
		ID:         uuid.NewString(),
		Name:       name,
		SessionID:  sessionID,
		Properties: Properties(props),
		CreatedAt:  at.UTC(),
	}
	_, err := s.db.NamedExec(`
		INSERT INTO events (id, name, session_id, properties, created_at)
		VALUES (:id, :name, :session_id, :properties, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("sqlite storage: insert event %s: %w", row.ID, err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (s *SQLiteStorage) RecentEvents(limit int) ([]EventRow, error) {
	if limit <= 0 {
		return []EventRow{}, nil
	}
	rows := []EventRow{}
	err := s.db.Select(&rows, `
		SELECT id, name, session_id, properties, created_at
		FROM events
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list events: %w", err)
	}
	return rows, nil
}

// PruneEvents deletes all but the newest keep events and reports how many
// rows were removed.
func (s *SQLiteStorage) PruneEvents(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.Exec(`
		DELETE FROM events WHERE rowid NOT IN (
			SELECT rowid FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: prune events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: prune events: %w", err)
	}
	return n, nil
}
