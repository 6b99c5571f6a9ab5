package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const createSQLiteTablesSQL = `
CREATE TABLE IF NOT EXISTS purchase (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	player_id    TEXT NOT NULL DEFAULT '',
	kind         TEXT NOT NULL,
	item_id      TEXT NOT NULL,
	cost         REAL NOT NULL,
	points_after REAL NOT NULL,
	at_ms        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_purchase_item_id ON purchase(item_id);
CREATE TABLE IF NOT EXISTS prestige (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	player_id    TEXT NOT NULL DEFAULT '',
	level        INTEGER NOT NULL,
	total_clicks INTEGER NOT NULL,
	bonus        INTEGER NOT NULL,
	shielded     INTEGER NOT NULL DEFAULT 0,
	at_ms        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prestige_player_id ON prestige(player_id, at_ms DESC);
`

// SQLiteStore persists telemetry in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return recordTime(t).UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// OpenSQLite opens (or creates) a SQLite database at path and ensures the telemetry tables
// exist. ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, createSQLiteTablesSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite tables: %w", err)
	}
	slog.Info("opened SQLite", "tag", "storage", "path", path)
	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() {
	if s != nil && s.db != nil {
		_ = s.db.Close()
	}
}

// InsertPurchase records an upgrade purchase or artifact activation.
func (s *SQLiteStore) InsertPurchase(ctx context.Context, r PurchaseRecord) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO purchase (session_id, player_id, kind, item_id, cost, points_after, at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.PlayerID, r.Kind, r.ItemID, r.Cost, r.PointsAfter, toMillis(r.At))
	return err
}

// InsertPrestige records a completed prestige.
func (s *SQLiteStore) InsertPrestige(ctx context.Context, r PrestigeRecord) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prestige (session_id, player_id, level, total_clicks, bonus, shielded, at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.PlayerID, r.Level, r.TotalClicks, r.Bonus, r.Shielded, toMillis(r.At))
	return err
}

// ListPrestigesByPlayer returns the player's prestiges, newest first.
func (s *SQLiteStore) ListPrestigesByPlayer(ctx context.Context, playerID string, limit int) ([]PrestigeRecord, error) {
	if s == nil || s.db == nil {
		return []PrestigeRecord{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, player_id, level, total_clicks, bonus, shielded, at_ms
		FROM prestige
		WHERE player_id = ?
		ORDER BY at_ms DESC, id DESC
		LIMIT ?`,
		playerID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PrestigeRecord{}
	for rows.Next() {
		var r PrestigeRecord
		var atMS int64
		if err := rows.Scan(&r.SessionID, &r.PlayerID, &r.Level, &r.TotalClicks, &r.Bonus, &r.Shielded, &atMS); err != nil {
			return nil, err
		}
		r.At = fromMillis(atMS)
		out = append(out, r)
	}
	return out, rows.Err()
}

// countPurchases returns how many purchases of kind were recorded.
func (s *SQLiteStore) countPurchases(ctx context.Context, kind string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchase WHERE kind = ?`, kind).Scan(&n)
	return n, err
}
