package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fractaloutlook/Incremental/gameerrors"
)

const testIssuer = "https://auth.example.test"

func newTestKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return pub, priv
}

func signToken(t *testing.T, priv ed25519.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(priv)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return s
}

func staticVerifier(pub ed25519.PublicKey) *Verifier {
	return NewStaticVerifier(testIssuer, func(*jwt.Token) (any, error) { return pub, nil })
}

func TestVerify_Valid(t *testing.T) {
	pub, priv := newTestKeys(t)
	v := staticVerifier(pub)

	token := signToken(t, priv, jwt.MapClaims{
		"sub":  "user-42",
		"name": "Ada Lovelace",
		"iss":  testIssuer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("expected valid token: %v", err)
	}
	if id.UserID != "user-42" || id.Name != "Ada" {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestVerify_Rejects(t *testing.T) {
	pub, priv := newTestKeys(t)
	_, otherPriv := newTestKeys(t)
	v := staticVerifier(pub)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong issuer", signToken(t, priv, jwt.MapClaims{"sub": "u", "iss": "https://evil.test"})},
		{"expired", signToken(t, priv, jwt.MapClaims{"sub": "u", "iss": testIssuer, "exp": time.Now().Add(-time.Hour).Unix()})},
		{"wrong key", signToken(t, otherPriv, jwt.MapClaims{"sub": "u", "iss": testIssuer})},
		{"no subject", signToken(t, priv, jwt.MapClaims{"iss": testIssuer})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); !errors.Is(err, gameerrors.ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestVerify_Unconfigured(t *testing.T) {
	v, err := NewVerifier("")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if v.Configured() {
		t.Error("expected unconfigured verifier")
	}
	if _, err := v.Verify("anything"); !errors.Is(err, gameerrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"Bearer   ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClaimsHelpers(t *testing.T) {
	if got := FirstNameFromClaims(jwt.MapClaims{"name": "  "}); got != "Player" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := UserIDFromClaims(jwt.MapClaims{"id": "abc"}); got != "abc" {
		t.Errorf("expected id fallback, got %q", got)
	}
}
