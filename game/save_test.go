package game

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fractaloutlook/Incremental/catalog"
	"github.com/fractaloutlook/Incremental/gameerrors"
)

func TestSaveRoundTrip(t *testing.T) {
	e := newTestEngine()
	s := e.NewState()
	s.IncrementPoints = 1234.5
	s.ClickPower = 7
	s.AutoIncrementRate = 3
	s.TotalClicks = 812
	s.PrestigeLevel = 2
	s.Multiplier = 1.5
	s.Upgrades["click_power_1"] = true
	s.ActivatedArtifacts = []string{catalog.OrbOfWisdomID}
	s.SecretUpgrades = []string{catalog.HiddenPowerID}

	data, err := EncodeSave(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc, err := DecodeSave(data, 1<<20)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	loaded := e.NewState()
	e.LoadState(loaded, doc)

	if !reflect.DeepEqual(s, loaded) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", s, loaded)
	}
}

func TestDecodeSave_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		max  int
		want error
	}{
		{"not json", "hello", 0, gameerrors.ErrMalformedSave},
		{"array", "[1,2]", 0, gameerrors.ErrMalformedSave},
		{"truncated", `{"incrementPoints": 5`, 0, gameerrors.ErrMalformedSave},
		{"wrong type", `{"clickPower": "lots"}`, 0, gameerrors.ErrMalformedSave},
		{"empty", "   ", 0, gameerrors.ErrMalformedSave},
		{"too large", `{"incrementPoints": 5}`, 10, gameerrors.ErrSaveTooLarge},
		{"negative points", `{"incrementPoints": -1}`, 0, gameerrors.ErrInvalidSaveField},
		{"zero multiplier", `{"multiplier": 0}`, 0, gameerrors.ErrInvalidSaveField},
		{"negative clicks", `{"totalClicks": -3}`, 0, gameerrors.ErrInvalidSaveField},
		{"negative level", `{"prestigeLevel": -1}`, 0, gameerrors.ErrInvalidSaveField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSave([]byte(tt.data), tt.max)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadState_PartialMerge(t *testing.T) {
	e := newTestEngine()
	s := e.NewState()
	s.ClickPower = 4
	s.TotalClicks = 30
	s.Upgrades["click_power_1"] = true

	doc, err := DecodeSave([]byte(`{"incrementPoints": 999, "favouriteColour": "blue"}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	e.LoadState(s, doc)

	if s.IncrementPoints != 999 {
		t.Errorf("expected points 999, got %v", s.IncrementPoints)
	}
	if s.ClickPower != 4 || s.TotalClicks != 30 || !s.Upgrades["click_power_1"] {
		t.Errorf("absent fields must keep their values, got %+v", s)
	}
}

func TestLoadState_DedupesSets(t *testing.T) {
	e := newTestEngine()
	s := e.NewState()

	doc, err := DecodeSave([]byte(`{"activatedArtifacts": ["a", "b", "a"], "secretUpgrades": ["x", "x"]}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	e.LoadState(s, doc)

	if !reflect.DeepEqual(s.ActivatedArtifacts, []string{"a", "b"}) {
		t.Errorf("expected deduped artifacts, got %v", s.ActivatedArtifacts)
	}
	if !reflect.DeepEqual(s.SecretUpgrades, []string{"x"}) {
		t.Errorf("expected deduped secrets, got %v", s.SecretUpgrades)
	}
}

func TestEncodeSave_FieldNames(t *testing.T) {
	e := newTestEngine()
	data, err := EncodeSave(e.NewState())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, key := range []string{
		`"incrementPoints"`, `"clickPower"`, `"autoIncrementRate"`, `"totalClicks"`, `"prestigeLevel"`,
		`"multiplier"`, `"upgrades"`, `"artifacts"`, `"activatedArtifacts":[]`, `"secretUpgrades":[]`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("save is missing %s: %s", key, data)
		}
	}
}

func TestSaveFileName(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	if got := SaveFileName(at); got != "incremental-save-1700000000123.json" {
		t.Errorf("unexpected file name %q", got)
	}
}
