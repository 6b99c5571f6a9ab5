package game

import (
	"math"

	"github.com/fractaloutlook/Incremental/catalog"
	"github.com/fractaloutlook/Incremental/config"
	"github.com/fractaloutlook/Incremental/quest"
)

// PrestigeClicksPerBonus is how many clicks earn one point of post-prestige click power.
const PrestigeClicksPerBonus = 100

// Engine applies economy operations to a caller-owned GameState.
// It holds no state of its own; callers serialize access to the GameState they pass in.
type Engine struct {
	Catalog    *catalog.Registry
	Thresholds config.PrestigeConfig
}

// NewEngine creates an Engine over the given catalog and prestige thresholds.
func NewEngine(reg *catalog.Registry, prestige config.PrestigeConfig) *Engine {
	return &Engine{Catalog: reg, Thresholds: prestige}
}

// NewState returns the initial state for this engine's catalog.
func (e *Engine) NewState() *GameState {
	return InitialGameState(e.Catalog)
}

// ApplyClick counts a click and pays clickPower * multiplier.
func (e *Engine) ApplyClick(s *GameState) {
	s.TotalClicks++
	s.IncrementPoints += s.ClickPower * s.Multiplier
}

// Tick pays one period of automatic generation. It returns false, leaving s untouched,
// when the rate is zero.
func (e *Engine) Tick(s *GameState) bool {
	if s.AutoIncrementRate <= 0 {
		return false
	}
	s.IncrementPoints += s.AutoIncrementRate * s.Multiplier
	return true
}

// PurchaseUpgrade buys a shop upgrade. It returns false with no state change if the id is
// unknown, the upgrade is already owned, or the player cannot afford it.
func (e *Engine) PurchaseUpgrade(s *GameState, id string) bool {
	u, ok := e.Catalog.Upgrade(id)
	if !ok || s.Upgrades[id] || s.IncrementPoints < u.Cost {
		return false
	}
	if s.Upgrades == nil {
		s.Upgrades = make(map[string]bool)
	}
	s.IncrementPoints -= u.Cost
	s.Upgrades[id] = true
	applyEffect(s, u.Effect)
	return true
}

// ActivateArtifact activates an artifact with the same guards as PurchaseUpgrade.
func (e *Engine) ActivateArtifact(s *GameState, id string) bool {
	a, ok := e.Catalog.Artifact(id)
	if !ok || s.HasArtifact(id) || s.IncrementPoints < a.Cost {
		return false
	}
	s.IncrementPoints -= a.Cost
	s.ActivatedArtifacts = append(s.ActivatedArtifacts, id)
	applyEffect(s, a.Effect)
	return true
}

// applyEffect interprets one effect descriptor against s.
func applyEffect(s *GameState, eff catalog.Effect) {
	switch eff.Kind {
	case catalog.AddClickPower:
		s.ClickPower += eff.Amount
	case catalog.AddAutoRate:
		s.AutoIncrementRate += eff.Amount
	case catalog.MultiplyClickPower:
		s.ClickPower *= eff.Amount
	case catalog.MultiplyAutoRate:
		s.AutoIncrementRate *= eff.Amount
	case catalog.MultiplyMultiplier:
		s.Multiplier *= eff.Amount
	case catalog.UnlockSecret:
		unlockSecret(s, eff.SecretID)
	case catalog.PrestigeShield:
		// Read by Prestige.
	}
}

// ApplyEventEffect adds the bonus points and folds the multiplier into the persistent one.
// Nil fields are neutral.
func (e *Engine) ApplyEventEffect(s *GameState, eff quest.EventEffect) {
	if eff.PointsBonus != nil {
		s.IncrementPoints += *eff.PointsBonus
		if s.IncrementPoints < 0 {
			s.IncrementPoints = 0
		}
	}
	if eff.Multiplier != nil && *eff.Multiplier > 0 {
		s.Multiplier *= *eff.Multiplier
	}
}

// ApplyComboBonus pays the combo share of the last click: clickPower * multiplier * (combo - 1).
// Together with ApplyClick this yields clickPower * multiplier * combo for the click.
// The persistent multiplier is left alone. Returns the points added.
func (e *Engine) ApplyComboBonus(s *GameState, comboMultiplier float64) float64 {
	if comboMultiplier <= 1 {
		return 0
	}
	bonus := s.ClickPower * s.Multiplier * (comboMultiplier - 1)
	s.IncrementPoints += bonus
	return bonus
}

// GrantReward adds reward points, e.g. from a claimed quest. Negative amounts are ignored.
func (e *Engine) GrantReward(s *GameState, points float64) {
	if points <= 0 || math.IsNaN(points) {
		return
	}
	s.IncrementPoints += points
}

// UnlockSecret adds id to the secret upgrade set. It returns false if it was already there.
func (e *Engine) UnlockSecret(s *GameState, id string) bool {
	return unlockSecret(s, id)
}

func unlockSecret(s *GameState, id string) bool {
	if id == "" || s.HasSecret(id) {
		return false
	}
	s.SecretUpgrades = append(s.SecretUpgrades, id)
	return true
}

// PrestigeResult describes a completed prestige.
type PrestigeResult struct {
	Level       int64
	TotalClicks int64
	Bonus       int64
	Shielded    bool
}

// Prestige resets the run in exchange for click power. It is a no-op below the engine's
// click floor. Upgrades always clear; the shield artifact keeps artifacts, secrets and
// half the multiplier.
func (e *Engine) Prestige(s *GameState) (PrestigeResult, bool) {
	if s.TotalClicks < e.Thresholds.MinClicks {
		return PrestigeResult{}, false
	}
	bonus := s.TotalClicks / PrestigeClicksPerBonus
	shielded := s.HasArtifact(catalog.ShieldOfPersistenceID)
	prev := s.Clone()

	*s = *e.NewState()
	s.PrestigeLevel = prev.PrestigeLevel + 1
	s.ClickPower = 1 + float64(bonus)
	if shielded {
		s.Multiplier = prev.Multiplier * 0.5
		s.ActivatedArtifacts = prev.ActivatedArtifacts
		s.SecretUpgrades = prev.SecretUpgrades
	}

	return PrestigeResult{
		Level:       s.PrestigeLevel,
		TotalClicks: prev.TotalClicks,
		Bonus:       bonus,
		Shielded:    shielded,
	}, true
}

// PrestigeStatus is the read-only prestige projection for clients.
type PrestigeStatus struct {
	// Eligible is the engine guard: Prestige will succeed.
	Eligible bool `json:"eligible"`
	// Offered is the stricter display threshold a client uses to show the action.
	Offered     bool  `json:"offered"`
	MinClicks   int64 `json:"minClicks"`
	ClickPower  int64 `json:"clickPowerAfter"`
	NextLevel   int64 `json:"nextLevel"`
	ShieldReady bool  `json:"shieldReady"`
}

// PrestigeStatus reports eligibility and what a prestige would grant right now.
func (e *Engine) PrestigeStatus(s *GameState) PrestigeStatus {
	return PrestigeStatus{
		Eligible:    s.TotalClicks >= e.Thresholds.MinClicks,
		Offered:     s.TotalClicks >= e.Thresholds.DisplayClicks && s.IncrementPoints >= e.Thresholds.DisplayPoints,
		MinClicks:   e.Thresholds.MinClicks,
		ClickPower:  1 + s.TotalClicks/PrestigeClicksPerBonus,
		NextLevel:   s.PrestigeLevel + 1,
		ShieldReady: s.HasArtifact(catalog.ShieldOfPersistenceID),
	}
}

// VisibleUpgrades lists the shop for s: regular upgrades plus secret ones s has unlocked.
func (e *Engine) VisibleUpgrades(s *GameState) []catalog.Upgrade {
	all := e.Catalog.Upgrades()
	out := make([]catalog.Upgrade, 0, len(all))
	for _, u := range all {
		if u.Secret && !s.HasSecret(u.ID) {
			continue
		}
		out = append(out, u)
	}
	return out
}
