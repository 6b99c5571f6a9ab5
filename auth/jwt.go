package auth

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fractaloutlook/Incremental/gameerrors"
)

// Identity is the authenticated player behind a token.
type Identity struct {
	UserID string
	Name   string
}

// Verifier validates bearer tokens against an auth provider's JWKS.
// The key set is fetched once on first use and refreshed in the background by keyfunc.
type Verifier struct {
	baseURL string
	issuer  string
	methods []string

	mu      sync.Mutex
	keyfunc jwt.Keyfunc
}

// NewVerifier creates a Verifier for the auth provider at baseURL. An empty baseURL yields
// a Verifier that rejects every token.
func NewVerifier(baseURL string) (*Verifier, error) {
	v := &Verifier{baseURL: strings.TrimRight(baseURL, "/"), methods: []string{"EdDSA"}}
	if v.baseURL == "" {
		return v, nil
	}
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth base URL: %w", err)
	}
	v.issuer = u.Scheme + "://" + u.Host
	return v, nil
}

// NewStaticVerifier creates a Verifier with a fixed key function, e.g. a local public key.
func NewStaticVerifier(issuer string, kf jwt.Keyfunc, methods ...string) *Verifier {
	if len(methods) == 0 {
		methods = []string{"EdDSA"}
	}
	return &Verifier{baseURL: issuer, issuer: issuer, methods: methods, keyfunc: kf}
}

// Configured reports whether the Verifier can accept any token.
func (v *Verifier) Configured() bool {
	return v != nil && v.baseURL != ""
}

func (v *Verifier) keys() (jwt.Keyfunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.keyfunc != nil {
		return v.keyfunc, nil
	}
	jwks, err := keyfunc.NewDefault([]string{v.baseURL + "/.well-known/jwks.json"})
	if err != nil {
		return nil, fmt.Errorf("loading JWKS: %w", err)
	}
	v.keyfunc = jwks.Keyfunc
	return v.keyfunc, nil
}

// Verify validates tokenString and returns the identity it carries.
// Every failure wraps gameerrors.ErrUnauthenticated.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if !v.Configured() {
		return Identity{}, fmt.Errorf("%w: auth base URL is not set", gameerrors.ErrUnauthenticated)
	}
	kf, err := v.keys()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", gameerrors.ErrUnauthenticated, err)
	}
	token, err := jwt.Parse(tokenString, kf,
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods(v.methods))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", gameerrors.ErrUnauthenticated, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token claims", gameerrors.ErrUnauthenticated)
	}
	id := UserIDFromClaims(claims)
	if id == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", gameerrors.ErrUnauthenticated)
	}
	return Identity{UserID: id, Name: FirstNameFromClaims(claims)}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// FirstNameFromClaims returns the first word of the "name" claim, or a fallback.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Player"
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
