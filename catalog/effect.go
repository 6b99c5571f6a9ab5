package catalog

import "fmt"

// EffectKind tags what an upgrade or artifact does when bought.
type EffectKind int

const (
	AddClickPower EffectKind = iota
	AddAutoRate
	MultiplyClickPower
	MultiplyAutoRate
	MultiplyMultiplier
	UnlockSecret   // appends SecretID to the secret upgrade set
	PrestigeShield // no immediate effect; read by prestige
)

// String returns the wire name for an EffectKind.
func (k EffectKind) String() string {
	switch k {
	case AddClickPower:
		return "add_click_power"
	case AddAutoRate:
		return "add_auto_rate"
	case MultiplyClickPower:
		return "multiply_click_power"
	case MultiplyAutoRate:
		return "multiply_auto_rate"
	case MultiplyMultiplier:
		return "multiply_multiplier"
	case UnlockSecret:
		return "unlock_secret"
	case PrestigeShield:
		return "prestige_shield"
	default:
		return "unknown"
	}
}

// MarshalText lets EffectKind serialize by name.
func (k EffectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Effect is a tagged effect descriptor. Amount is ignored for UnlockSecret and PrestigeShield.
type Effect struct {
	Kind     EffectKind `json:"kind"`
	Amount   float64    `json:"amount,omitempty"`
	SecretID string     `json:"secretId,omitempty"`
}

// Label renders the effect the way the shop shows it.
func (e Effect) Label() string {
	switch e.Kind {
	case AddClickPower:
		return fmt.Sprintf("+%g Click Power", e.Amount)
	case AddAutoRate:
		return fmt.Sprintf("+%g/sec Auto Rate", e.Amount)
	case MultiplyClickPower:
		return fmt.Sprintf("%gx Click Power", e.Amount)
	case MultiplyAutoRate:
		return fmt.Sprintf("%gx Auto Rate", e.Amount)
	case MultiplyMultiplier:
		return fmt.Sprintf("%gx All Gains", e.Amount)
	case UnlockSecret:
		return "Reveals Secret Upgrades"
	case PrestigeShield:
		return "Prestige Protection"
	default:
		return ""
	}
}
