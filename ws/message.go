package ws

import (
	"encoding/json"
	"errors"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg carries a bearer token from the auth provider.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// PurchaseUpgradeMsg buys a shop upgrade.
type PurchaseUpgradeMsg struct {
	Type      string `json:"type"`
	UpgradeID string `json:"upgradeId"`
}

// ActivateArtifactMsg activates an artifact.
type ActivateArtifactMsg struct {
	Type       string `json:"type"`
	ArtifactID string `json:"artifactId"`
}

// ClaimQuestMsg claims a completed quest.
type ClaimQuestMsg struct {
	Type    string `json:"type"`
	QuestID string `json:"questId"`
}

// KeyMsg reports one key press, as a KeyboardEvent.code value.
type KeyMsg struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

// LoadSaveMsg carries a save file, either as a JSON object or as the file's text in a string.
type LoadSaveMsg struct {
	Type string          `json:"type"`
	Save json.RawMessage `json:"save"`
}

// SaveBytes returns the save file contents.
func (m LoadSaveMsg) SaveBytes() ([]byte, error) {
	if len(m.Save) == 0 {
		return nil, errors.New("missing save")
	}
	if m.Save[0] == '"' {
		var text string
		if err := json.Unmarshal(m.Save, &text); err != nil {
			return nil, err
		}
		return []byte(text), nil
	}
	return m.Save, nil
}

// --- Server-to-Client messages not produced by the session ---

// ErrorMsg reports a request the transport could not route.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
