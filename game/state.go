package game

import (
	"slices"

	"github.com/fractaloutlook/Incremental/catalog"
)

// ArtifactDescriptor is the catalog entry for an artifact as carried in the game state.
type ArtifactDescriptor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Effect      string  `json:"effect"`
	Rarity      string  `json:"rarity"`
}

// GameState is the whole economy for one player. The JSON field names are the save format.
type GameState struct {
	IncrementPoints    float64              `json:"incrementPoints"`
	ClickPower         float64              `json:"clickPower"`
	AutoIncrementRate  float64              `json:"autoIncrementRate"`
	TotalClicks        int64                `json:"totalClicks"`
	PrestigeLevel      int64                `json:"prestigeLevel"`
	Multiplier         float64              `json:"multiplier"`
	Upgrades           map[string]bool      `json:"upgrades"`
	Artifacts          []ArtifactDescriptor `json:"artifacts"`
	ActivatedArtifacts []string             `json:"activatedArtifacts"`
	SecretUpgrades     []string             `json:"secretUpgrades"`
}

// InitialGameState returns a fresh state with the artifact gallery taken from reg.
func InitialGameState(reg *catalog.Registry) *GameState {
	return &GameState{
		IncrementPoints:    0,
		ClickPower:         1,
		AutoIncrementRate:  0,
		TotalClicks:        0,
		PrestigeLevel:      0,
		Multiplier:         1,
		Upgrades:           make(map[string]bool),
		Artifacts:          describeArtifacts(reg),
		ActivatedArtifacts: []string{},
		SecretUpgrades:     []string{},
	}
}

func describeArtifacts(reg *catalog.Registry) []ArtifactDescriptor {
	if reg == nil {
		return []ArtifactDescriptor{}
	}
	all := reg.Artifacts()
	out := make([]ArtifactDescriptor, 0, len(all))
	for _, a := range all {
		out = append(out, ArtifactDescriptor{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Cost:        a.Cost,
			Effect:      a.Effect.Label(),
			Rarity:      a.Rarity,
		})
	}
	return out
}

// Clone returns a deep copy of s.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Upgrades = make(map[string]bool, len(s.Upgrades))
	for k, v := range s.Upgrades {
		c.Upgrades[k] = v
	}
	c.Artifacts = slices.Clone(s.Artifacts)
	c.ActivatedArtifacts = slices.Clone(s.ActivatedArtifacts)
	c.SecretUpgrades = slices.Clone(s.SecretUpgrades)
	return &c
}

// HasArtifact reports whether the artifact is activated.
func (s *GameState) HasArtifact(id string) bool {
	return slices.Contains(s.ActivatedArtifacts, id)
}

// HasSecret reports whether the secret upgrade id is unlocked.
func (s *GameState) HasSecret(id string) bool {
	return slices.Contains(s.SecretUpgrades, id)
}

// PurchasedUpgrades returns the number of upgrades bought this prestige epoch.
func (s *GameState) PurchasedUpgrades() int {
	n := 0
	for _, bought := range s.Upgrades {
		if bought {
			n++
		}
	}
	return n
}
