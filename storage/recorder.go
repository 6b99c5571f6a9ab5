package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Recorder adapts a TelemetryStore to the session's fire-and-forget telemetry calls.
// Writes run on one background goroutine with a per-write timeout; when the queue is
// full new records are dropped so the session loop never blocks on the database.
type Recorder struct {
	store   TelemetryStore
	timeout time.Duration
	queue   chan func(ctx context.Context) error

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewRecorder starts a Recorder over store. A nil store yields a Recorder that discards everything.
func NewRecorder(store TelemetryStore, buffer int, timeout time.Duration) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Recorder{
		store:   store,
		timeout: timeout,
		queue:   make(chan func(ctx context.Context) error, buffer),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for write := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := write(ctx); err != nil {
			slog.Error("telemetry write failed", "tag", "storage", "err", err)
		}
		cancel()
	}
}

func (r *Recorder) enqueue(kind string, write func(ctx context.Context) error) {
	if r == nil || r.store == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- write:
	default:
		slog.Warn("telemetry queue full, dropping record", "tag", "storage", "kind", kind)
	}
}

// RecordPurchase queues a purchase or activation record.
func (r *Recorder) RecordPurchase(sessionID, playerID, kind, itemID string, cost, pointsAfter float64) {
	rec := PurchaseRecord{
		SessionID:   sessionID,
		PlayerID:    playerID,
		Kind:        kind,
		ItemID:      itemID,
		Cost:        cost,
		PointsAfter: pointsAfter,
		At:          time.Now().UTC(),
	}
	r.enqueue("purchase", func(ctx context.Context) error {
		return r.store.InsertPurchase(ctx, rec)
	})
}

// RecordPrestige queues a prestige record.
func (r *Recorder) RecordPrestige(sessionID, playerID string, level, totalClicks, bonus int64, shielded bool) {
	rec := PrestigeRecord{
		SessionID:   sessionID,
		PlayerID:    playerID,
		Level:       level,
		TotalClicks: totalClicks,
		Bonus:       bonus,
		Shielded:    shielded,
		At:          time.Now().UTC(),
	}
	r.enqueue("prestige", func(ctx context.Context) error {
		return r.store.InsertPrestige(ctx, rec)
	})
}

// Close stops accepting records and waits for queued writes to finish.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.done
}
