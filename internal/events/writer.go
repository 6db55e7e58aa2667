package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Writer appends audit entries for journal mutations. A nil Writer pointer
// is a no-op so the repository works without an event log (memory-backed
// tests, library embedding).
type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type EventPayload map[string]any

func (w *Writer) Append(ctx context.Context, evtType, decisionID, actorID string, payload EventPayload) error {
	if w == nil || w.DB == nil {
		return nil
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx, `INSERT INTO events(ts,type,decision_id,actor_id,payload_json) VALUES (?,?,?,?,?)`,
		ts, evtType, nullable(decisionID), actorID, string(data))
	return err
}

// Latest returns up to limit entries, newest first, optionally filtered by
// event type and decision id.
func (w *Writer) Latest(ctx context.Context, limit int, evtType, decisionID string) ([]Entry, error) {
	if w == nil || w.DB == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id,ts,type,COALESCE(decision_id,''),actor_id,payload_json FROM events WHERE 1=1`
	var args []any
	if evtType != "" {
		query += ` AND type=?`
		args = append(args, evtType)
	}
	if decisionID != "" {
		query += ` AND decision_id=?`
		args = append(args, decisionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)
	rows, err := w.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.DecisionID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Entry is one persisted audit record.
type Entry struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	DecisionID string `json:"decisionId,omitempty"`
	ActorID    string `json:"actorId"`
	Payload    string `json:"payloadJson"`
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
