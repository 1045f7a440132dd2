package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"waypoint-cli/internal/model"

	"github.com/google/uuid"
)

// Event types written by mutations.
const (
	EventPointAdd    = "point.add"
	EventPointUpdate = "point.update"
	EventPointDelete = "point.delete"
	EventSeed        = "trip.seed"
)

type errEventContract struct{ msg string }

func (e errEventContract) Error() string { return "event contract: " + e.msg }

// AppendEvent records a mutation in the append-only log.
func (s Store) AppendEvent(typ, entityID string, payload any) error {
	return s.appendEventSQLite(context.Background(), typ, entityID, payload)
}

func (s Store) ReadEvents(limit int) ([]model.Event, error) {
	return s.readEventsSQLite(context.Background(), "", limit)
}

func (s Store) ReadEventsForEntity(entityID string, limit int) ([]model.Event, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return []model.Event{}, nil
	}
	return s.readEventsSQLite(context.Background(), entityID, limit)
}

func (s Store) appendEventSQLite(ctx context.Context, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return errEventContract{msg: "missing type"}
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return errEventContract{msg: fmt.Sprintf("missing entity id for %q", typ)}
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	nowMs := time.Now().UTC().UnixMilli()
	_, err = db.ExecContext(ctx, `
		INSERT INTO events(event_id, entity_id, type, issued_at_unixms, payload_json, created_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), entityID, typ, nowMs, string(pb), nowMs)
	return err
}

func (s Store) readEventsSQLite(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, issued_at_unixms, type, entity_id, payload_json FROM events`
	var args []any
	if entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY created_at_unixms ASC, rowid ASC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows *sql.Rows
	rows, err = db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var id, typ, eid, payloadJSON string
		var tsMs int64
		if err := rows.Scan(&id, &tsMs, &typ, &eid, &payloadJSON); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(tsMs).UTC(),
			Type:     typ,
			EntityID: eid,
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
