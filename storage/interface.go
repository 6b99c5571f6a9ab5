package storage

import (
	"context"
	"strings"
	"time"
)

// PurchaseRecord is one upgrade purchase or artifact activation.
type PurchaseRecord struct {
	SessionID   string    `json:"session_id"`
	PlayerID    string    `json:"player_id"`
	Kind        string    `json:"kind"` // "upgrade" or "artifact"
	ItemID      string    `json:"item_id"`
	Cost        float64   `json:"cost"`
	PointsAfter float64   `json:"points_after"`
	At          time.Time `json:"at"`
}

// PrestigeRecord is one completed prestige.
type PrestigeRecord struct {
	SessionID   string    `json:"session_id"`
	PlayerID    string    `json:"player_id"`
	Level       int64     `json:"level"`
	TotalClicks int64     `json:"total_clicks"`
	Bonus       int64     `json:"bonus"`
	Shielded    bool      `json:"shielded"`
	At          time.Time `json:"at"`
}

// TelemetryStore abstracts persistence for economy telemetry.
// Implementations can be swapped for testing (mocks) or different backends.
type TelemetryStore interface {
	// Write
	InsertPurchase(ctx context.Context, r PurchaseRecord) error
	InsertPrestige(ctx context.Context, r PrestigeRecord) error

	// Read
	ListPrestigesByPlayer(ctx context.Context, playerID string, limit int) ([]PrestigeRecord, error)

	// Lifecycle
	Close()
}

// Ensure both backends implement TelemetryStore at compile time.
var (
	_ TelemetryStore = (*PGStore)(nil)
	_ TelemetryStore = (*SQLiteStore)(nil)
)

// DefaultListLimit caps list queries when the caller passes no limit.
const DefaultListLimit = 50

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > 200 {
		return 200
	}
	return limit
}

// Open picks a backend from the URL: "sqlite:" or "file:" prefixes open SQLite, anything
// else is handed to Postgres. An empty URL returns (nil, nil) and no persistence occurs.
func Open(ctx context.Context, databaseURL string) (TelemetryStore, error) {
	if databaseURL == "" {
		return nil, nil
	}
	if path, ok := sqlitePath(databaseURL); ok {
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := NewPGStore(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func sqlitePath(databaseURL string) (string, bool) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return strings.TrimPrefix(databaseURL, "sqlite:"), true
	case strings.HasPrefix(databaseURL, "file:"):
		return databaseURL, true
	default:
		return "", false
	}
}
