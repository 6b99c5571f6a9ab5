package quest

import (
	"github.com/fractaloutlook/Incremental/notify"
)

// Achievement is a permanent badge derived from progress.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	unlocked    func(p Progress) bool
}

// DefaultAchievements returns the stock achievement list.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: "first_click", Name: "First Click", Description: "Click for the first time", Rarity: "common",
			unlocked: func(p Progress) bool { return p.TotalClicks >= 1 }},
		{ID: "hundred_clicks", Name: "Centurion", Description: "Reach 100 total clicks", Rarity: "rare",
			unlocked: func(p Progress) bool { return p.TotalClicks >= 100 }},
		{ID: "first_prestige", Name: "Transcendent", Description: "Prestige for the first time", Rarity: "epic",
			unlocked: func(p Progress) bool { return p.PrestigeLevel >= 1 }},
		{ID: "secret_finder", Name: "Secret Keeper", Description: "Discover a hidden secret", Rarity: "legendary",
			unlocked: func(p Progress) bool { return p.SecretsFound > 0 }},
	}
}

// Board announces each achievement once per session.
type Board struct {
	achievements []Achievement
	announced    map[string]bool
}

// NewBoard creates a Board over the given achievements.
func NewBoard(achievements []Achievement) *Board {
	return &Board{achievements: achievements, announced: make(map[string]bool)}
}

// Evaluate returns a notification for every achievement newly unlocked by p.
func (b *Board) Evaluate(p Progress) []notify.Notification {
	var notes []notify.Notification
	for _, a := range b.achievements {
		if b.announced[a.ID] || !a.unlocked(p) {
			continue
		}
		b.announced[a.ID] = true
		notes = append(notes, notify.Notification{
			Kind:        notify.Achievement,
			Title:       "Achievement Unlocked!",
			Message:     a.Name + ": " + a.Description,
			AutoCloseMS: 5000,
		})
	}
	return notes
}

// Unlocked lists the achievements p currently satisfies.
func (b *Board) Unlocked(p Progress) []Achievement {
	var out []Achievement
	for _, a := range b.achievements {
		if a.unlocked(p) {
			out = append(out, a)
		}
	}
	return out
}
