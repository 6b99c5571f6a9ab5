package catalog

// Rarity constants for artifacts (display only).
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Upgrade is a one-time shop purchase.
type Upgrade struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Effect      Effect  `json:"effect"`
	// Secret upgrades are only listed once their id is in the player's secret upgrade set.
	Secret bool `json:"secret,omitempty"`
}

// Artifact is a one-time activation with a permanent effect.
type Artifact struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Effect      Effect  `json:"effect"`
	Rarity      string  `json:"rarity"`
}

// Registry holds all upgrades and artifacts indexed by their ID.
type Registry struct {
	upgrades      map[string]Upgrade
	upgradeOrder  []string // registration order for deterministic listing
	artifacts     map[string]Artifact
	artifactOrder []string
}

// NewRegistry creates a new empty catalog registry.
func NewRegistry() *Registry {
	return &Registry{
		upgrades:  make(map[string]Upgrade),
		artifacts: make(map[string]Artifact),
	}
}

// RegisterUpgrade adds an upgrade, replacing any previous one with the same id.
func (r *Registry) RegisterUpgrade(u Upgrade) {
	if _, exists := r.upgrades[u.ID]; !exists {
		r.upgradeOrder = append(r.upgradeOrder, u.ID)
	}
	r.upgrades[u.ID] = u
}

// RegisterArtifact adds an artifact, replacing any previous one with the same id.
func (r *Registry) RegisterArtifact(a Artifact) {
	if _, exists := r.artifacts[a.ID]; !exists {
		r.artifactOrder = append(r.artifactOrder, a.ID)
	}
	r.artifacts[a.ID] = a
}

// Upgrade returns the upgrade with the given id.
func (r *Registry) Upgrade(id string) (Upgrade, bool) {
	u, ok := r.upgrades[id]
	return u, ok
}

// Artifact returns the artifact with the given id.
func (r *Registry) Artifact(id string) (Artifact, bool) {
	a, ok := r.artifacts[id]
	return a, ok
}

// Upgrades returns all upgrades in registration order.
func (r *Registry) Upgrades() []Upgrade {
	out := make([]Upgrade, 0, len(r.upgradeOrder))
	for _, id := range r.upgradeOrder {
		out = append(out, r.upgrades[id])
	}
	return out
}

// Artifacts returns all artifacts in registration order.
func (r *Registry) Artifacts() []Artifact {
	out := make([]Artifact, 0, len(r.artifactOrder))
	for _, id := range r.artifactOrder {
		out = append(out, r.artifacts[id])
	}
	return out
}

// Upgrade and artifact ids referenced by game logic.
const (
	HiddenPowerID         = "hidden_power"
	MirrorNumbersID       = "mirror_numbers"
	OrbOfWisdomID         = "orb_of_wisdom"
	GemOfAmplificationID  = "gem_of_amplification"
	ShieldOfPersistenceID = "shield_of_persistence"
)

// RegisterDefaults registers the stock shop and artifact gallery.
func RegisterDefaults(r *Registry) {
	r.RegisterUpgrade(Upgrade{ID: "click_power_1", Name: "Sharper Focus", Description: "Increases click power by 1", Cost: 10, Effect: Effect{Kind: AddClickPower, Amount: 1}})
	r.RegisterUpgrade(Upgrade{ID: "click_power_2", Name: "Enhanced Precision", Description: "Increases click power by 5", Cost: 100, Effect: Effect{Kind: AddClickPower, Amount: 5}})
	r.RegisterUpgrade(Upgrade{ID: "click_power_3", Name: "Master Precision", Description: "Increases click power by 25", Cost: 2500, Effect: Effect{Kind: AddClickPower, Amount: 25}})
	r.RegisterUpgrade(Upgrade{ID: "auto_increment_1", Name: "Basic Automation", Description: "Generates 1 point per second", Cost: 50, Effect: Effect{Kind: AddAutoRate, Amount: 1}})
	r.RegisterUpgrade(Upgrade{ID: "auto_increment_2", Name: "Advanced Automation", Description: "Generates 5 points per second", Cost: 500, Effect: Effect{Kind: AddAutoRate, Amount: 5}})
	r.RegisterUpgrade(Upgrade{ID: "auto_increment_3", Name: "Elite Automation", Description: "Generates 25 points per second", Cost: 10000, Effect: Effect{Kind: AddAutoRate, Amount: 25}})
	r.RegisterUpgrade(Upgrade{ID: "multiplier_1", Name: "Efficiency Boost", Description: "Multiplies all gains by 1.5x", Cost: 1000, Effect: Effect{Kind: MultiplyMultiplier, Amount: 1.5}})
	r.RegisterUpgrade(Upgrade{ID: "multiplier_2", Name: "Power Amplifier", Description: "Multiplies all gains by 2x", Cost: 25000, Effect: Effect{Kind: MultiplyMultiplier, Amount: 2}})
	r.RegisterUpgrade(Upgrade{ID: HiddenPowerID, Name: "Hidden Power", Description: "A mysterious upgrade from the Orb of Wisdom", Cost: 2500, Effect: Effect{Kind: AddClickPower, Amount: 10}, Secret: true})
	r.RegisterUpgrade(Upgrade{ID: MirrorNumbersID, Name: "Mirror Numbers", Description: "Palindromic power doubles auto increment", Cost: 5000, Effect: Effect{Kind: MultiplyAutoRate, Amount: 2}, Secret: true})

	r.RegisterArtifact(Artifact{ID: "crown_of_progress", Name: "Crown of Progress", Description: "Increases auto-increment rate by 10/sec", Cost: 2000, Effect: Effect{Kind: AddAutoRate, Amount: 10}, Rarity: RarityEpic})
	r.RegisterArtifact(Artifact{ID: OrbOfWisdomID, Name: "Orb of Wisdom", Description: "Unlocks hidden upgrades in the shop", Cost: 5000, Effect: Effect{Kind: UnlockSecret, SecretID: HiddenPowerID}, Rarity: RarityLegendary})
	r.RegisterArtifact(Artifact{ID: GemOfAmplificationID, Name: "Gem of Amplification", Description: "Multiplies click power by 2x", Cost: 1500, Effect: Effect{Kind: MultiplyClickPower, Amount: 2}, Rarity: RarityRare})
	r.RegisterArtifact(Artifact{ID: "star_of_fortune", Name: "Star of Fortune", Description: "Increases all gains by 25%", Cost: 7500, Effect: Effect{Kind: MultiplyMultiplier, Amount: 1.25}, Rarity: RarityLegendary})
	r.RegisterArtifact(Artifact{ID: ShieldOfPersistenceID, Name: "Shield of Persistence", Description: "Keeps artifacts and half the multiplier through prestige", Cost: 10000, Effect: Effect{Kind: PrestigeShield}, Rarity: RarityLegendary})
}

// Default returns a registry filled by RegisterDefaults.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
