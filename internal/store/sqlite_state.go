package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"waypoint-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.StatePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI read while the CLI writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS points (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			type TEXT NOT NULL,
			destination_id INTEGER NOT NULL,
			date_from_unixms INTEGER NOT NULL,
			date_to_unixms INTEGER NOT NULL,
			base_price INTEGER NOT NULL,
			is_favorite INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_points_from ON points(date_from_unixms);`,
		`CREATE TABLE IF NOT EXISTS destinations (
			id INTEGER PRIMARY KEY,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS offer_groups (
			type TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			entity_id TEXT NOT NULL,
			type TEXT NOT NULL,
			issued_at_unixms INTEGER NOT NULL,
			payload_json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, issued_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := &DB{Version: 1}
	var v string
	if err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, "version").Scan(&v); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			out.Version = n
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if out.Points, err = readJSONRows[model.Point](ctx, db, `SELECT json FROM points ORDER BY pos ASC`); err != nil {
		return nil, err
	}
	if out.Destinations, err = readJSONRows[model.Destination](ctx, db, `SELECT json FROM destinations ORDER BY pos ASC`); err != nil {
		return nil, err
	}
	if out.OfferGroups, err = readJSONRows[model.OfferGroup](ctx, db, `SELECT json FROM offer_groups ORDER BY pos ASC`); err != nil {
		return nil, err
	}

	// Ensure nil slices are empty for stable callers.
	if out.Points == nil {
		out.Points = []model.Point{}
	}
	if out.Destinations == nil {
		out.Destinations = []model.Destination{}
	}
	if out.OfferGroups == nil {
		out.OfferGroups = []model.OfferGroup{}
	}
	for i := range out.Points {
		if out.Points[i].Offers == nil {
			out.Points[i].Offers = []int{}
		}
	}
	return out, nil
}

// SaveSQLite replaces the stored state with st in one transaction.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = 1
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(version)); err != nil {
		return err
	}

	for _, t := range []string{"points", "destinations", "offer_groups"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()
	for i, p := range st.Points {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO points(
			id, pos, type, destination_id,
			date_from_unixms, date_to_unixms,
			base_price, is_favorite,
			json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, string(p.Type), p.Destination,
			p.DateFrom.UTC().UnixMilli(), p.DateTo.UTC().UnixMilli(),
			p.BasePrice, boolToInt(p.IsFavorite),
			string(raw), nowMs,
		); err != nil {
			return err
		}
	}
	for i, d := range st.Destinations {
		raw, err := json.Marshal(d)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO destinations(id, pos, name, json) VALUES(?, ?, ?, ?)`, d.ID, i, d.Name, string(raw)); err != nil {
			return err
		}
	}
	for i, g := range st.OfferGroups {
		raw, err := json.Marshal(g)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO offer_groups(type, pos, json) VALUES(?, ?, ?)`, string(g.Type), i, string(raw)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
