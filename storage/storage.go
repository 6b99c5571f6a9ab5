package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createPGTablesSQL = `
CREATE TABLE IF NOT EXISTS purchase (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	session_id   TEXT NOT NULL,
	player_id    TEXT NOT NULL DEFAULT '',
	kind         TEXT NOT NULL,
	item_id      TEXT NOT NULL,
	cost         DOUBLE PRECISION NOT NULL,
	points_after DOUBLE PRECISION NOT NULL,
	at           TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_purchase_item_id ON purchase(item_id);
CREATE TABLE IF NOT EXISTS prestige (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	session_id   TEXT NOT NULL,
	player_id    TEXT NOT NULL DEFAULT '',
	level        BIGINT NOT NULL,
	total_clicks BIGINT NOT NULL,
	bonus        BIGINT NOT NULL,
	shielded     BOOLEAN NOT NULL DEFAULT false,
	at           TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_prestige_player_id ON prestige(player_id, at DESC);
`

// PGStore persists telemetry in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to Postgres and ensures the telemetry tables exist.
// If databaseURL is empty, NewPGStore returns (nil, nil) and no persistence occurs.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createPGTablesSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &PGStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InsertPurchase records an upgrade purchase or artifact activation.
func (s *PGStore) InsertPurchase(ctx context.Context, r PurchaseRecord) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO purchase (session_id, player_id, kind, item_id, cost, points_after, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.SessionID, r.PlayerID, r.Kind, r.ItemID, r.Cost, r.PointsAfter, recordTime(r.At))
	return err
}

// InsertPrestige records a completed prestige.
func (s *PGStore) InsertPrestige(ctx context.Context, r PrestigeRecord) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO prestige (session_id, player_id, level, total_clicks, bonus, shielded, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.SessionID, r.PlayerID, r.Level, r.TotalClicks, r.Bonus, r.Shielded, recordTime(r.At))
	return err
}

// ListPrestigesByPlayer returns the player's prestiges, newest first.
func (s *PGStore) ListPrestigesByPlayer(ctx context.Context, playerID string, limit int) ([]PrestigeRecord, error) {
	if s == nil || s.pool == nil {
		return []PrestigeRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, player_id, level, total_clicks, bonus, shielded, at
		FROM prestige
		WHERE player_id = $1
		ORDER BY at DESC
		LIMIT $2`,
		playerID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PrestigeRecord{}
	for rows.Next() {
		var r PrestigeRecord
		if err := rows.Scan(&r.SessionID, &r.PlayerID, &r.Level, &r.TotalClicks, &r.Bonus, &r.Shielded, &r.At); err != nil {
			return nil, err
		}
		r.At = r.At.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func recordTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
