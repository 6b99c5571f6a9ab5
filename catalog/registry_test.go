package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.RegisterUpgrade(Upgrade{ID: "click_power_1", Name: "Sharper Focus", Cost: 10, Effect: Effect{Kind: AddClickPower, Amount: 1}})

	u, ok := r.Upgrade("click_power_1")
	if !ok {
		t.Fatal("expected to find 'click_power_1' in registry")
	}
	if u.Name != "Sharper Focus" {
		t.Errorf("expected Name='Sharper Focus', got %q", u.Name)
	}
	if u.Cost != 10 {
		t.Errorf("expected Cost=10, got %v", u.Cost)
	}
}

func TestRegistryGetNonExistent(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Upgrade("nonexistent"); ok {
		t.Error("expected Upgrade to return false for nonexistent id")
	}
	if _, ok := r.Artifact("nonexistent"); ok {
		t.Error("expected Artifact to return false for nonexistent id")
	}
}

func TestRegistryReRegisterKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.RegisterUpgrade(Upgrade{ID: "a", Cost: 1})
	r.RegisterUpgrade(Upgrade{ID: "b", Cost: 2})
	r.RegisterUpgrade(Upgrade{ID: "a", Cost: 3})

	all := r.Upgrades()
	if len(all) != 2 {
		t.Fatalf("expected 2 upgrades, got %d", len(all))
	}
	if all[0].ID != "a" || all[1].ID != "b" {
		t.Errorf("expected order [a b], got [%s %s]", all[0].ID, all[1].ID)
	}
	if all[0].Cost != 3 {
		t.Errorf("expected re-registered cost 3, got %v", all[0].Cost)
	}
}

func TestDefaultCatalog(t *testing.T) {
	r := Default()

	costs := map[string]float64{
		"click_power_1":    10,
		"click_power_2":    100,
		"auto_increment_1": 50,
		"auto_increment_2": 500,
		"multiplier_1":     1000,
		HiddenPowerID:      2500,
		MirrorNumbersID:    5000,
	}
	for id, want := range costs {
		u, ok := r.Upgrade(id)
		if !ok {
			t.Errorf("missing upgrade %q", id)
			continue
		}
		if u.Cost != want {
			t.Errorf("upgrade %q: expected cost %v, got %v", id, want, u.Cost)
		}
	}

	artifactCosts := map[string]float64{
		"crown_of_progress":   2000,
		OrbOfWisdomID:         5000,
		GemOfAmplificationID:  1500,
		"star_of_fortune":     7500,
		ShieldOfPersistenceID: 10000,
	}
	for id, want := range artifactCosts {
		a, ok := r.Artifact(id)
		if !ok {
			t.Errorf("missing artifact %q", id)
			continue
		}
		if a.Cost != want {
			t.Errorf("artifact %q: expected cost %v, got %v", id, want, a.Cost)
		}
	}

	orb, _ := r.Artifact(OrbOfWisdomID)
	if orb.Effect.Kind != UnlockSecret || orb.Effect.SecretID != HiddenPowerID {
		t.Errorf("orb of wisdom should unlock %q, got %+v", HiddenPowerID, orb.Effect)
	}
	hidden, _ := r.Upgrade(HiddenPowerID)
	if !hidden.Secret {
		t.Error("hidden_power should be a secret upgrade")
	}
}

func TestEffectLabelAndJSON(t *testing.T) {
	e := Effect{Kind: MultiplyMultiplier, Amount: 1.5}
	if got := e.Label(); got != "1.5x All Gains" {
		t.Errorf("expected label '1.5x All Gains', got %q", got)
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"kind":"multiply_multiplier"`) {
		t.Errorf("expected kind to serialize by name, got %s", data)
	}
}
