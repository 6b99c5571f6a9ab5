package game

import (
	"encoding/json"

	"github.com/fractaloutlook/Incremental/combo"
	"github.com/fractaloutlook/Incremental/notify"
	"github.com/fractaloutlook/Incremental/quest"
)

// UpgradeView is one shop row.
type UpgradeView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Effect      string  `json:"effect"`
	Secret      bool    `json:"secret,omitempty"`
	Purchased   bool    `json:"purchased"`
	Affordable  bool    `json:"affordable"`
}

// ArtifactView is one gallery row.
type ArtifactView struct {
	ArtifactDescriptor
	Activated  bool `json:"activated"`
	Affordable bool `json:"affordable"`
}

// EventView describes the offered or running event.
type EventView struct {
	quest.Event
	Active       bool  `json:"active"`
	EndsAtUnixMs int64 `json:"endsAtUnixMs,omitempty"`
}

// StateMsg is the full state pushed to the client after every change.
type StateMsg struct {
	Type                string              `json:"type"`
	IncrementPoints     float64             `json:"incrementPoints"`
	ClickPower          float64             `json:"clickPower"`
	AutoIncrementRate   float64             `json:"autoIncrementRate"`
	TotalClicks         int64               `json:"totalClicks"`
	PrestigeLevel       int64               `json:"prestigeLevel"`
	Multiplier          float64             `json:"multiplier"`
	EffectiveClickPower float64             `json:"effectiveClickPower"` // clickPower * multiplier * combo
	EffectiveAutoRate   float64             `json:"effectiveAutoRate"`
	Combo               combo.State         `json:"combo"`
	Prestige            PrestigeStatus      `json:"prestige"`
	Upgrades            []UpgradeView       `json:"upgrades"`
	Artifacts           []ArtifactView      `json:"artifacts"`
	SecretUpgrades      []string            `json:"secretUpgrades"`
	Quests              []quest.QuestView   `json:"quests"`
	Achievements        []quest.Achievement `json:"achievements"`
	SecretsFound        []string            `json:"secretsFound"`
	Event               *EventView          `json:"event,omitempty"`
}

// NotificationMsg wraps a toast for the wire.
type NotificationMsg struct {
	Type string `json:"type"`
	notify.Notification
}

// SaveFileMsg carries an exported save for download.
type SaveFileMsg struct {
	Type     string          `json:"type"`
	FileName string          `json:"fileName"`
	Data     json.RawMessage `json:"data"`
}

// EventOfferedMsg announces a random event the player may activate.
type EventOfferedMsg struct {
	Type  string      `json:"type"`
	Event quest.Event `json:"event"`
}

// ErrorMsg reports a rejected request.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// BuildState returns the client view of the session. It must be called from the Run goroutine.
func (s *Session) BuildState() StateMsg {
	st := s.state
	cs := s.combo.Snapshot()

	upgrades := make([]UpgradeView, 0)
	for _, u := range s.Engine.VisibleUpgrades(st) {
		upgrades = append(upgrades, UpgradeView{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Cost:        u.Cost,
			Effect:      u.Effect.Label(),
			Secret:      u.Secret,
			Purchased:   st.Upgrades[u.ID],
			Affordable:  st.IncrementPoints >= u.Cost,
		})
	}

	artifacts := make([]ArtifactView, 0, len(st.Artifacts))
	for _, a := range st.Artifacts {
		artifacts = append(artifacts, ArtifactView{
			ArtifactDescriptor: a,
			Activated:          st.HasArtifact(a.ID),
			Affordable:         st.IncrementPoints >= a.Cost,
		})
	}

	p := s.progress()
	achievements := s.achievements.Unlocked(p)
	if achievements == nil {
		achievements = []quest.Achievement{}
	}
	secrets := append([]string{}, st.SecretUpgrades...)

	msg := StateMsg{
		Type:                "game_state",
		IncrementPoints:     st.IncrementPoints,
		ClickPower:          st.ClickPower,
		AutoIncrementRate:   st.AutoIncrementRate,
		TotalClicks:         st.TotalClicks,
		PrestigeLevel:       st.PrestigeLevel,
		Multiplier:          st.Multiplier,
		EffectiveClickPower: st.ClickPower * st.Multiplier * cs.Multiplier,
		EffectiveAutoRate:   st.AutoIncrementRate * st.Multiplier,
		Combo:               cs,
		Prestige:            s.Engine.PrestigeStatus(st),
		Upgrades:            upgrades,
		Artifacts:           artifacts,
		SecretUpgrades:      secrets,
		Quests:              s.quests.Views(p),
		Achievements:        achievements,
		SecretsFound:        append([]string{}, s.secrets.Found()...),
	}
	switch {
	case s.active != nil:
		msg.Event = &EventView{Event: *s.active, Active: true, EndsAtUnixMs: s.activeUntil.UnixMilli()}
	case s.offered != nil:
		msg.Event = &EventView{Event: *s.offered}
	}
	return msg
}
