// Package combo tracks click streaks and derives the transient combo multiplier.
//
// The Tracker never reads the clock or owns a timer. Callers pass the click instant in and
// schedule the decay themselves from Pending; Decay only acts when the generation it is
// handed still matches the armed deadline, so late timer callbacks are harmless.
package combo

import (
	"fmt"
	"time"

	"github.com/fractaloutlook/Incremental/notify"
)

// Settings tunes a Tracker.
type Settings struct {
	Window         time.Duration
	Max            int
	BonusThreshold int
	BonusStep      float64
}

// DefaultSettings returns the stock combo tuning.
func DefaultSettings() Settings {
	return Settings{
		Window:         2000 * time.Millisecond,
		Max:            50,
		BonusThreshold: 5,
		BonusStep:      0.1,
	}
}

// BrokenNotifyMin is the smallest streak whose end is announced.
const BrokenNotifyMin = 10

type milestone struct {
	combo int
	note  notify.Notification
}

var milestones = []milestone{
	{10, notify.Notification{Kind: notify.Success, Title: "🔥 Hot Streak!", Message: "10x combo achieved!", AutoCloseMS: 4000}},
	{25, notify.Notification{Kind: notify.Success, Title: "⚡ Lightning Fast!", Message: "25x combo! Incredible!", AutoCloseMS: 4000}},
	{50, notify.Notification{Kind: notify.Achievement, Title: "🌟 LEGENDARY!", Message: "MAXIMUM COMBO REACHED!", AutoCloseMS: 6000}},
}

// Tracker is the combo state machine: Idle (combo 0) or Active(1..Max).
type Tracker struct {
	settings Settings

	combo         int
	maxCombo      int
	lastClick     time.Time // zero until the first click of a streak
	deadline      time.Time
	armed         bool
	generation    uint64
	lastMilestone int
}

// NewTracker creates an idle Tracker.
func NewTracker(s Settings) *Tracker {
	if s.Max < 1 {
		s.Max = 1
	}
	return &Tracker{settings: s}
}

// ObserveClick feeds one click at instant now and returns any notifications it caused.
// A click inside the window extends the streak; anything slower ends the current streak
// and starts a new one at 1. Either way the decay deadline is re-armed.
func (t *Tracker) ObserveClick(now time.Time) []notify.Notification {
	var notes []notify.Notification

	if !t.lastClick.IsZero() && now.Sub(t.lastClick) < t.settings.Window {
		t.combo++
		if t.combo > t.settings.Max {
			t.combo = t.settings.Max
		}
		for _, m := range milestones {
			if t.combo >= m.combo && t.lastMilestone < m.combo {
				notes = append(notes, m.note)
				t.lastMilestone = m.combo
			}
		}
	} else {
		if t.combo > 0 {
			notes = append(notes, t.breakStreak()...)
		}
		t.combo = 1
		t.lastMilestone = 0
	}

	if t.combo > t.maxCombo {
		t.maxCombo = t.combo
	}
	t.lastClick = now
	t.generation++
	t.deadline = now.Add(t.settings.Window)
	t.armed = true
	return notes
}

// Decay handles an expired decay timer. Only the generation returned by the latest
// Pending call resets the combo; any other generation is ignored.
func (t *Tracker) Decay(generation uint64) []notify.Notification {
	if !t.armed || generation != t.generation {
		return nil
	}
	notes := t.breakStreak()
	t.armed = false
	t.lastClick = time.Time{}
	return notes
}

// ObserveTotalClicks resets the tracker when the external click counter is back to 0
// (for example after a prestige wipe or a load).
func (t *Tracker) ObserveTotalClicks(total int64) {
	if total != 0 {
		return
	}
	t.combo = 0
	t.lastMilestone = 0
	t.lastClick = time.Time{}
	t.armed = false
	t.generation++
}

// breakStreak ends the current streak; long streaks are announced.
func (t *Tracker) breakStreak() []notify.Notification {
	var notes []notify.Notification
	if t.combo >= BrokenNotifyMin {
		notes = append(notes, notify.Notification{
			Kind:        notify.Info,
			Title:       "Combo Broken!",
			Message:     fmt.Sprintf("Amazing %dx combo streak ended!", t.combo),
			AutoCloseMS: 3000,
		})
	}
	t.combo = 0
	t.lastMilestone = 0
	return notes
}

// Pending returns the armed decay deadline and its generation.
func (t *Tracker) Pending() (deadline time.Time, generation uint64, ok bool) {
	return t.deadline, t.generation, t.armed
}

// Combo returns the current streak length.
func (t *Tracker) Combo() int { return t.combo }

// MaxCombo returns the longest streak seen this session.
func (t *Tracker) MaxCombo() int { return t.maxCombo }

// Multiplier returns the transient gain multiplier: 1 + combo*step once the streak
// reaches the bonus threshold, otherwise exactly 1.
func (t *Tracker) Multiplier() float64 {
	if t.combo < t.settings.BonusThreshold {
		return 1
	}
	return 1 + float64(t.combo)*t.settings.BonusStep
}

// State is a read-only view of the tracker for clients.
type State struct {
	Combo      int     `json:"combo"`
	MaxCombo   int     `json:"maxCombo"`
	Cap        int     `json:"cap"`
	Multiplier float64 `json:"multiplier"`
}

// Snapshot returns the current State.
func (t *Tracker) Snapshot() State {
	return State{
		Combo:      t.combo,
		MaxCombo:   t.maxCombo,
		Cap:        t.settings.Max,
		Multiplier: t.Multiplier(),
	}
}
