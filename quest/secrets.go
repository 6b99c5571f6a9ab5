package quest

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fractaloutlook/Incremental/notify"
)

const (
	SecretKonami     = "konami"
	SecretMidnight   = "midnight"
	SecretPalindrome = "palindrome"
)

// Secret is a hidden discovery.
type Secret struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	UnlockUpgrade string `json:"-"` // secret upgrade revealed on discovery, if any
}

// DefaultSecrets returns the stock secret list.
func DefaultSecrets() []Secret {
	return []Secret{
		{ID: SecretKonami, Name: "The Classic Code", Description: "Enter a legendary cheat code"},
		{ID: SecretMidnight, Name: "Midnight Clicker", Description: "Click during the midnight hour"},
		{ID: SecretPalindrome, Name: "Mirror Numbers", Description: "Reach a palindromic point total", UnlockUpgrade: "mirror_numbers"},
	}
}

// KonamiSequence is the key code sequence for the classic code.
var KonamiSequence = []string{
	"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown",
	"ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight",
	"KeyB", "KeyA",
}

// Discovery is a newly found secret plus the notification announcing it.
type Discovery struct {
	Secret       Secret
	Notification notify.Notification
}

// Detector watches input for secret triggers. Each secret is discovered at most once.
type Detector struct {
	secrets map[string]Secret
	found   map[string]bool
	order   []string
	keys    []string
}

// NewDetector creates a Detector over the given secrets.
func NewDetector(secrets []Secret) *Detector {
	d := &Detector{
		secrets: make(map[string]Secret, len(secrets)),
		found:   make(map[string]bool),
	}
	for _, s := range secrets {
		d.secrets[s.ID] = s
	}
	return d
}

// ObserveKey feeds one key code into the sequence buffer.
func (d *Detector) ObserveKey(code string) []Discovery {
	d.keys = append(d.keys, code)
	if len(d.keys) > len(KonamiSequence) {
		d.keys = d.keys[len(d.keys)-len(KonamiSequence):]
	}
	if len(d.keys) != len(KonamiSequence) {
		return nil
	}
	for i, k := range KonamiSequence {
		if d.keys[i] != k {
			return nil
		}
	}
	d.keys = d.keys[:0]
	return d.discover(SecretKonami)
}

// ObserveClick checks the wall-clock hour of a click.
func (d *Detector) ObserveClick(at time.Time) []Discovery {
	if at.Hour() == 0 {
		return d.discover(SecretMidnight)
	}
	return nil
}

// ObservePoints checks the point total after a change.
func (d *Detector) ObservePoints(points float64) []Discovery {
	if IsPalindrome(points) {
		return d.discover(SecretPalindrome)
	}
	return nil
}

// Found lists discovered secret ids in discovery order.
func (d *Detector) Found() []string {
	return append([]string(nil), d.order...)
}

// Count returns how many secrets have been discovered.
func (d *Detector) Count() int { return len(d.order) }

func (d *Detector) discover(id string) []Discovery {
	s, ok := d.secrets[id]
	if !ok || d.found[id] {
		return nil
	}
	d.found[id] = true
	d.order = append(d.order, id)
	return []Discovery{{
		Secret: s,
		Notification: notify.Notification{
			Kind:        notify.Achievement,
			Title:       "🎉 SECRET DISCOVERED!",
			Message:     fmt.Sprintf("You've unlocked: %s!", s.Name),
			AutoCloseMS: 5000,
		},
	}}
}

// IsPalindrome reports whether the floor of points reads the same reversed
// and has more than three digits.
func IsPalindrome(points float64) bool {
	if points < 0 || math.IsNaN(points) || math.IsInf(points, 0) || points >= 1e18 {
		return false
	}
	s := strconv.FormatInt(int64(math.Floor(points)), 10)
	if len(s) <= 3 {
		return false
	}
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}
