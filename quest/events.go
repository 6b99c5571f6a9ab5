package quest

import (
	"math/rand"
	"time"
)

// EventEffect mirrors the engine's event payload. Nil fields are neutral.
type EventEffect struct {
	PointsBonus *float64 `json:"pointsBonus,omitempty"`
	Multiplier  *float64 `json:"multiplier,omitempty"`
}

// Event is a random special event the player may activate once offered.
type Event struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	DurationSec int         `json:"durationSec"` // 0 = instant
	Effect      EventEffect `json:"effect"`
}

// Duration returns how long the event stays active once activated.
func (e Event) Duration() time.Duration {
	return time.Duration(e.DurationSec) * time.Second
}

func ptr(v float64) *float64 { return &v }

// DefaultEvents returns the stock event pool.
func DefaultEvents() []Event {
	return []Event{
		{ID: "double_points", Name: "Double Points", Description: "All gains doubled", DurationSec: 30, Effect: EventEffect{Multiplier: ptr(2)}},
		{ID: "bonus_drop", Name: "Bonus Drop", Description: "Instant 500 points", DurationSec: 0, Effect: EventEffect{PointsBonus: ptr(500)}},
	}
}

// Roller decides when to offer an event.
type Roller struct {
	Events    []Event
	Chance    float64 // per roll, 0-1
	MinClicks int64   // rolls only happen strictly above this many clicks
	rng       *rand.Rand
}

// NewRoller creates a Roller with its own random source.
func NewRoller(events []Event, chance float64, minClicks int64, seed int64) *Roller {
	return &Roller{
		Events:    events,
		Chance:    chance,
		MinClicks: minClicks,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Roll returns an event to offer, or false. Nothing is offered while another event is pending.
func (r *Roller) Roll(totalClicks int64, busy bool) (Event, bool) {
	if busy || totalClicks <= r.MinClicks || len(r.Events) == 0 {
		return Event{}, false
	}
	if r.rng.Float64() >= r.Chance {
		return Event{}, false
	}
	return r.Events[r.rng.Intn(len(r.Events))], true
}
