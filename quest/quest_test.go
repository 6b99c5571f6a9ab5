package quest

import (
	"errors"
	"testing"
	"time"

	"github.com/fractaloutlook/Incremental/gameerrors"
)

func TestBookClaim(t *testing.T) {
	b := NewBook(DefaultQuests())

	if _, err := b.Claim("first_clicks", Progress{TotalClicks: 9}); !errors.Is(err, gameerrors.ErrQuestNotComplete) {
		t.Errorf("expected not complete, got %v", err)
	}
	reward, err := b.Claim("first_clicks", Progress{TotalClicks: 10})
	if err != nil {
		t.Fatalf("expected claim to succeed: %v", err)
	}
	if reward != 50 {
		t.Errorf("expected reward 50, got %v", reward)
	}
	if _, err := b.Claim("first_clicks", Progress{TotalClicks: 10}); !errors.Is(err, gameerrors.ErrQuestClaimed) {
		t.Errorf("expected already claimed, got %v", err)
	}
	if _, err := b.Claim("nope", Progress{}); !errors.Is(err, gameerrors.ErrUnknownQuest) {
		t.Errorf("expected unknown quest, got %v", err)
	}
}

func TestBookViews(t *testing.T) {
	b := NewBook(DefaultQuests())
	p := Progress{TotalClicks: 150, UpgradesPurchased: 0}
	if _, err := b.Claim("hundred_clicks", p); err != nil {
		t.Fatalf("claim: %v", err)
	}

	views := b.Views(p)
	byID := make(map[string]QuestView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	if v := byID["first_clicks"]; !v.Completed || v.Claimed || v.Current != 10 {
		t.Errorf("first_clicks: %+v", v)
	}
	if v := byID["hundred_clicks"]; !v.Claimed {
		t.Errorf("hundred_clicks should be claimed: %+v", v)
	}
	if v := byID["thousand_clicks"]; v.Completed || v.Current != 150 {
		t.Errorf("thousand_clicks: %+v", v)
	}
	if v := byID["first_upgrade"]; v.Completed {
		t.Errorf("first_upgrade should be open: %+v", v)
	}
}

func TestBoardAnnouncesOnce(t *testing.T) {
	b := NewBoard(DefaultAchievements())

	if notes := b.Evaluate(Progress{}); len(notes) != 0 {
		t.Errorf("expected nothing at start, got %v", notes)
	}
	if notes := b.Evaluate(Progress{TotalClicks: 100}); len(notes) != 2 {
		t.Errorf("expected first click and centurion, got %v", notes)
	}
	if notes := b.Evaluate(Progress{TotalClicks: 150}); len(notes) != 0 {
		t.Errorf("expected no repeats, got %v", notes)
	}
	notes := b.Evaluate(Progress{TotalClicks: 0, PrestigeLevel: 1})
	if len(notes) != 1 || notes[0].Message != "Transcendent: Prestige for the first time" {
		t.Errorf("expected transcendent, got %v", notes)
	}
	if got := len(b.Unlocked(Progress{TotalClicks: 1, SecretsFound: 1})); got != 2 {
		t.Errorf("expected 2 unlocked, got %d", got)
	}
}

func TestIsPalindrome(t *testing.T) {
	tests := []struct {
		points float64
		want   bool
	}{
		{1221, true},
		{1221.9, true},
		{12321, true},
		{121, false},
		{1234, false},
		{0, false},
		{-1221, false},
		{9999, true},
	}
	for _, tt := range tests {
		if got := IsPalindrome(tt.points); got != tt.want {
			t.Errorf("IsPalindrome(%v) = %v, want %v", tt.points, got, tt.want)
		}
	}
}

func TestDetectorKonami(t *testing.T) {
	d := NewDetector(DefaultSecrets())

	keys := append([]string{"ArrowUp", "KeyZ"}, KonamiSequence...)
	var found []Discovery
	for _, k := range keys {
		found = append(found, d.ObserveKey(k)...)
	}
	if len(found) != 1 || found[0].Secret.ID != SecretKonami {
		t.Fatalf("expected konami once, got %v", found)
	}
	for _, k := range KonamiSequence {
		if got := d.ObserveKey(k); len(got) != 0 {
			t.Fatal("secret discovered twice")
		}
	}
	if d.Count() != 1 {
		t.Errorf("expected count 1, got %d", d.Count())
	}
}

func TestDetectorMidnightAndPalindrome(t *testing.T) {
	d := NewDetector(DefaultSecrets())

	if got := d.ObserveClick(time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Error("afternoon click should not count")
	}
	if got := d.ObserveClick(time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)); len(got) != 1 {
		t.Error("expected midnight discovery")
	}
	got := d.ObservePoints(4554)
	if len(got) != 1 || got[0].Secret.UnlockUpgrade != "mirror_numbers" {
		t.Fatalf("expected palindrome with mirror_numbers unlock, got %v", got)
	}
	if got[0].Notification.Message != "You've unlocked: Mirror Numbers!" {
		t.Errorf("unexpected message %q", got[0].Notification.Message)
	}
	if ids := d.Found(); len(ids) != 2 || ids[0] != SecretMidnight || ids[1] != SecretPalindrome {
		t.Errorf("unexpected found order %v", ids)
	}
}

func TestRoller(t *testing.T) {
	r := NewRoller(DefaultEvents(), 1, 100, 1)

	if _, ok := r.Roll(100, false); ok {
		t.Error("no event at the click floor")
	}
	if _, ok := r.Roll(500, true); ok {
		t.Error("no event while one is pending")
	}
	ev, ok := r.Roll(101, false)
	if !ok {
		t.Fatal("expected an event at chance 1")
	}
	if ev.ID != "double_points" && ev.ID != "bonus_drop" {
		t.Errorf("unexpected event %q", ev.ID)
	}

	never := NewRoller(DefaultEvents(), 0, 0, 1)
	for i := 0; i < 100; i++ {
		if _, ok := never.Roll(1000, false); ok {
			t.Fatal("expected no event at chance 0")
		}
	}
}

func TestDefaultEvents(t *testing.T) {
	for _, ev := range DefaultEvents() {
		switch ev.ID {
		case "double_points":
			if ev.Effect.Multiplier == nil || *ev.Effect.Multiplier != 2 || ev.Duration() != 30*time.Second {
				t.Errorf("double_points: %+v", ev)
			}
		case "bonus_drop":
			if ev.Effect.PointsBonus == nil || *ev.Effect.PointsBonus != 500 || ev.Duration() != 0 {
				t.Errorf("bonus_drop: %+v", ev)
			}
		default:
			t.Errorf("unexpected event %q", ev.ID)
		}
	}
}
