package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fractaloutlook/Incremental/auth"
	"github.com/fractaloutlook/Incremental/catalog"
	"github.com/fractaloutlook/Incremental/storage"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	Catalog  *catalog.Registry
	Store    storage.TelemetryStore
	Verifier *auth.Verifier
}

// NewHandler creates a new API handler with the given dependencies. store may be nil.
func NewHandler(reg *catalog.Registry, store storage.TelemetryStore, verifier *auth.Verifier) *Handler {
	return &Handler{
		Catalog:  reg,
		Store:    store,
		Verifier: verifier,
	}
}

// Routes registers the API endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/catalog", h.CatalogList)
	mux.HandleFunc("/api/prestige-history", h.PrestigeHistory)
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// extractUserID validates the Authorization header and returns the user ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return ""
	}
	id, err := h.Verifier.Verify(token)
	if err != nil {
		slog.Debug("bearer token rejected", "tag", "api", "err", err)
		return ""
	}
	return id.UserID
}

// CatalogItem is one upgrade or artifact as served by /api/catalog.
type CatalogItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Effect      string  `json:"effect"`
	Rarity      string  `json:"rarity,omitempty"`
}

// CatalogResponse is the JSON structure for /api/catalog. Secret upgrades are left out.
type CatalogResponse struct {
	Upgrades  []CatalogItem `json:"upgrades"`
	Artifacts []CatalogItem `json:"artifacts"`
}

// CatalogList returns the public shop and artifact gallery.
func (h *Handler) CatalogList(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := CatalogResponse{Upgrades: []CatalogItem{}, Artifacts: []CatalogItem{}}
	for _, u := range h.Catalog.Upgrades() {
		if u.Secret {
			continue
		}
		resp.Upgrades = append(resp.Upgrades, CatalogItem{ID: u.ID, Name: u.Name, Description: u.Description, Cost: u.Cost, Effect: u.Effect.Label()})
	}
	for _, a := range h.Catalog.Artifacts() {
		resp.Artifacts = append(resp.Artifacts, CatalogItem{ID: a.ID, Name: a.Name, Description: a.Description, Cost: a.Cost, Effect: a.Effect.Label(), Rarity: a.Rarity})
	}

	writeJSON(w, resp)
}

// PrestigeHistory returns the authenticated player's prestiges, newest first.
func (h *Handler) PrestigeHistory(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list := []storage.PrestigeRecord{}
	if h.Store != nil {
		var err error
		list, err = h.Store.ListPrestigesByPlayer(r.Context(), userID, limit)
		if err != nil {
			slog.Error("listing prestige history", "tag", "api", "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, list)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "tag", "api", "err", err)
	}
}
