package service

import (
	"encoding/json"
	"time"

	"github.com/lberndt/gatehouse/pkg/signedtoken"
)

// sessionTokenType guards against a success token (or any other signed blob)
// being replayed as an admin session.
const sessionTokenType = "admin_auth"

const (
	// DefaultSessionTTL is the absolute lifetime of an admin session token,
	// measured from its most recent issuance.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultRenewalWindow is how much remaining lifetime triggers a silent
	// renewal. Half the TTL keeps active admins logged in without ever
	// extending a single token past its own 24h window.
	DefaultRenewalWindow = 12 * time.Hour
)

// SessionClaims is the signed payload of an admin session token.
type SessionClaims struct {
	Username  string `json:"username"`
	ExpiresAt int64  `json:"exp"` // epoch seconds
	Type      string `json:"type"`
}

// SessionService mints and verifies stateless admin session tokens. There is
// no server-side session table: possession of a validly signed, unexpired
// token is the credential, so logout cannot revoke an already-issued token
// and an actively renewed token can be kept alive indefinitely.
type SessionService struct {
	Codec         *signedtoken.Codec
	TTL           time.Duration // zero means DefaultSessionTTL
	RenewalWindow time.Duration // zero means DefaultRenewalWindow

	Now func() time.Time // test hook; nil means time.Now
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Lifetime returns the effective session TTL. Handlers use it to align the
// cookie expiry with the token's own exp claim.
func (s *SessionService) Lifetime() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

func (s *SessionService) renewalWindow() time.Duration {
	if s.RenewalWindow > 0 {
		return s.RenewalWindow
	}
	return DefaultRenewalWindow
}

// Issue mints a session token for username with a full lifetime window.
func (s *SessionService) Issue(username string) (string, error) {
	claims := SessionClaims{
		Username:  username,
		ExpiresAt: s.now().Add(s.Lifetime()).Unix(),
		Type:      sessionTokenType,
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return s.Codec.Encode(payload), nil
}

// Verify checks token and returns its claims. Any failure (malformed input,
// bad signature, wrong type, expiry) reports ok=false; verification never
// returns an error to branch on.
func (s *SessionService) Verify(token string) (SessionClaims, bool) {
	payload, err := s.Codec.Decode(token)
	if err != nil {
		return SessionClaims{}, false
	}

	var claims SessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return SessionClaims{}, false
	}
	if claims.Type != sessionTokenType || claims.Username == "" {
		return SessionClaims{}, false
	}

	// Expired strictly after exp: a token with exp == now still verifies.
	if claims.ExpiresAt < s.now().Unix() {
		return SessionClaims{}, false
	}
	return claims, true
}

// NeedsRenewal reports whether claims are inside the renewal window and the
// response should carry a freshly issued token.
func (s *SessionService) NeedsRenewal(claims SessionClaims) bool {
	remaining := time.Unix(claims.ExpiresAt, 0).Sub(s.now())
	return remaining < s.renewalWindow()
}

// Renew issues a fresh token with the full lifetime. Identical to Issue;
// renewal restarts the 24h clock rather than preserving the original one.
func (s *SessionService) Renew(username string) (string, error) {
	return s.Issue(username)
}
