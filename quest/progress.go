// Package quest holds the side goals layered on the economy: random events, quests,
// achievements and secret discoveries. It reads a narrow Progress projection and never
// touches the game state directly; rewards and unlocks are handed back to the caller.
package quest

// Progress is the read-only view of a player's run that goals are evaluated against.
type Progress struct {
	TotalClicks       int64
	PrestigeLevel     int64
	IncrementPoints   float64
	UpgradesPurchased int
	SecretsFound      int
}
