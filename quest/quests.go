package quest

import (
	"fmt"

	"github.com/fractaloutlook/Incremental/gameerrors"
)

// Quest is a one-shot goal with a point reward.
type Quest struct {
	ID          string
	Name        string
	Description string
	Target      int64
	Reward      float64
	current     func(p Progress) int64
}

// Current returns the progress counter the quest watches.
func (q Quest) Current(p Progress) int64 { return q.current(p) }

// Completed reports whether the target is reached.
func (q Quest) Completed(p Progress) bool { return q.current(p) >= q.Target }

func clicks(p Progress) int64   { return p.TotalClicks }
func upgrades(p Progress) int64 { return int64(p.UpgradesPurchased) }

// DefaultQuests returns the stock quest list.
func DefaultQuests() []Quest {
	return []Quest{
		{ID: "first_clicks", Name: "First Steps", Description: "Click 10 times", Target: 10, Reward: 50, current: clicks},
		{ID: "hundred_clicks", Name: "Clicking Master", Description: "Click 100 times", Target: 100, Reward: 200, current: clicks},
		{ID: "thousand_clicks", Name: "Click Champion", Description: "Click 1000 times", Target: 1000, Reward: 500, current: clicks},
		{ID: "first_upgrade", Name: "Upgrader", Description: "Purchase your first upgrade", Target: 1, Reward: 100, current: upgrades},
	}
}

// QuestView is the client-facing quest row.
type QuestView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Target      int64   `json:"target"`
	Current     int64   `json:"current"`
	Reward      float64 `json:"reward"`
	Completed   bool    `json:"completed"`
	Claimed     bool    `json:"claimed"`
}

// Book tracks which quest rewards have been claimed in a session.
type Book struct {
	quests  []Quest
	claimed map[string]bool
}

// NewBook creates a Book over the given quests.
func NewBook(quests []Quest) *Book {
	return &Book{quests: quests, claimed: make(map[string]bool)}
}

// Claim marks a completed quest as claimed and returns its reward.
func (b *Book) Claim(id string, p Progress) (float64, error) {
	for _, q := range b.quests {
		if q.ID != id {
			continue
		}
		if b.claimed[id] {
			return 0, fmt.Errorf("%w: %s", gameerrors.ErrQuestClaimed, id)
		}
		if !q.Completed(p) {
			return 0, fmt.Errorf("%w: %s", gameerrors.ErrQuestNotComplete, id)
		}
		b.claimed[id] = true
		return q.Reward, nil
	}
	return 0, fmt.Errorf("%w: %s", gameerrors.ErrUnknownQuest, id)
}

// Views lists every quest with its progress against p.
func (b *Book) Views(p Progress) []QuestView {
	out := make([]QuestView, 0, len(b.quests))
	for _, q := range b.quests {
		cur := q.Current(p)
		if cur > q.Target {
			cur = q.Target
		}
		out = append(out, QuestView{
			ID:          q.ID,
			Name:        q.Name,
			Description: q.Description,
			Target:      q.Target,
			Current:     cur,
			Reward:      q.Reward,
			Completed:   q.Completed(p),
			Claimed:     b.claimed[q.ID],
		})
	}
	return out
}
