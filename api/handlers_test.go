package api

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fractaloutlook/Incremental/auth"
	"github.com/fractaloutlook/Incremental/catalog"
	"github.com/fractaloutlook/Incremental/storage"
)

const testIssuer = "https://auth.example.test"

func testHandler(t *testing.T) (*Handler, ed25519.PrivateKey, *storage.SQLiteStore) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	verifier := auth.NewStaticVerifier(testIssuer, func(*jwt.Token) (any, error) { return pub, nil })
	store, err := storage.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(store.Close)
	return NewHandler(catalog.Default(), store, verifier), priv, store
}

func bearer(t *testing.T, priv ed25519.PrivateKey, sub string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"sub": sub,
		"iss": testIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(priv)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return "Bearer " + token
}

func TestCatalogList(t *testing.T) {
	h, _, _ := testHandler(t)
	rec := httptest.NewRecorder()
	h.CatalogList(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp CatalogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Upgrades) != 8 {
		t.Errorf("expected 8 public upgrades, got %d", len(resp.Upgrades))
	}
	for _, u := range resp.Upgrades {
		if u.ID == catalog.HiddenPowerID || u.ID == catalog.MirrorNumbersID {
			t.Errorf("secret upgrade %s exposed", u.ID)
		}
	}
	if len(resp.Artifacts) != 5 || resp.Artifacts[0].Rarity == "" {
		t.Errorf("unexpected artifacts %+v", resp.Artifacts)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestCatalogList_Methods(t *testing.T) {
	h, _, _ := testHandler(t)

	rec := httptest.NewRecorder()
	h.CatalogList(rec, httptest.NewRequest(http.MethodOptions, "/api/catalog", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.CatalogList(rec, httptest.NewRequest(http.MethodPost, "/api/catalog", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestPrestigeHistory_RequiresAuth(t *testing.T) {
	h, _, _ := testHandler(t)

	for _, header := range []string{"", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/prestige-history", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.PrestigeHistory(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestPrestigeHistory(t *testing.T) {
	h, priv, store := testHandler(t)
	ctx := context.Background()
	if err := store.InsertPrestige(ctx, storage.PrestigeRecord{SessionID: "s1", PlayerID: "alice", Level: 1, TotalClicks: 700, Bonus: 7}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.InsertPrestige(ctx, storage.PrestigeRecord{SessionID: "s2", PlayerID: "bob", Level: 1, TotalClicks: 500, Bonus: 5}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/prestige-history", nil)
	req.Header.Set("Authorization", bearer(t, priv, "alice"))
	rec := httptest.NewRecorder()
	h.PrestigeHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var list []storage.PrestigeRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].PlayerID != "alice" || list[0].Bonus != 7 {
		t.Errorf("unexpected history %+v", list)
	}
}

func TestPrestigeHistory_NoStore(t *testing.T) {
	h, priv, _ := testHandler(t)
	h.Store = nil

	req := httptest.NewRequest(http.MethodGet, "/api/prestige-history", nil)
	req.Header.Set("Authorization", bearer(t, priv, "alice"))
	rec := httptest.NewRecorder()
	h.PrestigeHistory(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Errorf("expected empty list, got %d %q", rec.Code, rec.Body.String())
	}
}
