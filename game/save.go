package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/fractaloutlook/Incremental/gameerrors"
)

// SaveDocument is a decoded save file. Every field is optional: a nil field was absent
// from the file and leaves the current value alone on load.
type SaveDocument struct {
	IncrementPoints    *float64              `json:"incrementPoints"`
	ClickPower         *float64              `json:"clickPower"`
	AutoIncrementRate  *float64              `json:"autoIncrementRate"`
	TotalClicks        *int64                `json:"totalClicks"`
	PrestigeLevel      *int64                `json:"prestigeLevel"`
	Multiplier         *float64              `json:"multiplier"`
	Upgrades           map[string]bool       `json:"upgrades"`
	Artifacts          *[]ArtifactDescriptor `json:"artifacts"`
	ActivatedArtifacts *[]string             `json:"activatedArtifacts"`
	SecretUpgrades     *[]string             `json:"secretUpgrades"`
}

// EncodeSave serializes s in the save format.
func EncodeSave(s *GameState) ([]byte, error) {
	c := s.Clone()
	if c.Artifacts == nil {
		c.Artifacts = []ArtifactDescriptor{}
	}
	if c.ActivatedArtifacts == nil {
		c.ActivatedArtifacts = []string{}
	}
	if c.SecretUpgrades == nil {
		c.SecretUpgrades = []string{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return data, nil
}

// SaveFileName returns the download name for a save exported at t.
func SaveFileName(t time.Time) string {
	return fmt.Sprintf("incremental-save-%d.json", t.UnixMilli())
}

// DecodeSave parses and validates a save file. maxBytes <= 0 disables the size check.
// Unknown fields are ignored. Any present field that is out of range rejects the whole file.
func DecodeSave(data []byte, maxBytes int) (*SaveDocument, error) {
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", gameerrors.ErrSaveTooLarge, len(data), maxBytes)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: not a JSON object", gameerrors.ErrMalformedSave)
	}
	var doc SaveDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", gameerrors.ErrMalformedSave, err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *SaveDocument) validate() error {
	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"incrementPoints", d.IncrementPoints},
		{"clickPower", d.ClickPower},
		{"autoIncrementRate", d.AutoIncrementRate},
	}
	for _, f := range nonNegative {
		if f.v != nil && (*f.v < 0 || math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return fmt.Errorf("%w: %s must be a finite number >= 0", gameerrors.ErrInvalidSaveField, f.name)
		}
	}
	if d.Multiplier != nil && (*d.Multiplier <= 0 || math.IsNaN(*d.Multiplier) || math.IsInf(*d.Multiplier, 0)) {
		return fmt.Errorf("%w: multiplier must be a finite number > 0", gameerrors.ErrInvalidSaveField)
	}
	if d.TotalClicks != nil && *d.TotalClicks < 0 {
		return fmt.Errorf("%w: totalClicks must be >= 0", gameerrors.ErrInvalidSaveField)
	}
	if d.PrestigeLevel != nil && *d.PrestigeLevel < 0 {
		return fmt.Errorf("%w: prestigeLevel must be >= 0", gameerrors.ErrInvalidSaveField)
	}
	return nil
}

// LoadState merges a validated save document over s.
func (e *Engine) LoadState(s *GameState, d *SaveDocument) {
	if d == nil {
		return
	}
	if d.IncrementPoints != nil {
		s.IncrementPoints = *d.IncrementPoints
	}
	if d.ClickPower != nil {
		s.ClickPower = *d.ClickPower
	}
	if d.AutoIncrementRate != nil {
		s.AutoIncrementRate = *d.AutoIncrementRate
	}
	if d.TotalClicks != nil {
		s.TotalClicks = *d.TotalClicks
	}
	if d.PrestigeLevel != nil {
		s.PrestigeLevel = *d.PrestigeLevel
	}
	if d.Multiplier != nil {
		s.Multiplier = *d.Multiplier
	}
	if d.Upgrades != nil {
		s.Upgrades = make(map[string]bool, len(d.Upgrades))
		for k, v := range d.Upgrades {
			s.Upgrades[k] = v
		}
	}
	if d.Artifacts != nil {
		s.Artifacts = append([]ArtifactDescriptor{}, (*d.Artifacts)...)
	}
	if d.ActivatedArtifacts != nil {
		s.ActivatedArtifacts = dedupe(*d.ActivatedArtifacts)
	}
	if d.SecretUpgrades != nil {
		s.SecretUpgrades = dedupe(*d.SecretUpgrades)
	}
}

// dedupe keeps the first occurrence of each id, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
