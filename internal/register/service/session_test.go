package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lberndt/gatehouse/pkg/signedtoken"
	"github.com/stretchr/testify/require"
)

func newSessionService(now time.Time) *SessionService {
	return &SessionService{
		Codec: signedtoken.NewCodec("session-test-secret"),
		Now:   func() time.Time { return now },
	}
}

func TestSession_IssueVerify(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)

	token, err := s.Issue("bob")
	require.NoError(t, err)

	claims, ok := s.Verify(token)
	require.True(t, ok)
	require.Equal(t, "bob", claims.Username)
	require.Equal(t, "admin_auth", claims.Type)
	require.Equal(t, now.Unix()+86400, claims.ExpiresAt)
}

func TestSession_ExpiryBoundary(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)

	token, err := s.Issue("bob")
	require.NoError(t, err)

	// exp == now still verifies; one second past does not.
	s.Now = func() time.Time { return now.Add(DefaultSessionTTL) }
	_, ok := s.Verify(token)
	require.True(t, ok)

	s.Now = func() time.Time { return now.Add(DefaultSessionTTL + time.Second) }
	_, ok = s.Verify(token)
	require.False(t, ok)
}

func TestSession_OneSecondLifetime(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)
	s.TTL = time.Second

	token, err := s.Issue("bob")
	require.NoError(t, err)

	_, ok := s.Verify(token)
	require.True(t, ok)

	s.Now = func() time.Time { return now.Add(2 * time.Second) }
	_, ok = s.Verify(token)
	require.False(t, ok)
}

func TestSession_VerifyRejectsGarbage(t *testing.T) {
	s := newSessionService(time.Unix(1700000000, 0))

	for _, bad := range []string{"", "no-dot", "a.b.c!!", "!!.!!"} {
		_, ok := s.Verify(bad)
		require.False(t, ok, "token %q", bad)
	}
}

func TestSession_VerifyRejectsWrongType(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)

	payload, err := json.Marshal(SessionClaims{
		Username:  "bob",
		ExpiresAt: now.Add(time.Hour).Unix(),
		Type:      "password_reset",
	})
	require.NoError(t, err)

	_, ok := s.Verify(s.Codec.Encode(payload))
	require.False(t, ok)
}

func TestSession_VerifyRejectsSuccessTokenShape(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)

	// A success token signed with the same secret must not open a session.
	success := &SuccessService{Codec: s.Codec, Now: s.Now}
	_, ok := s.Verify(success.Issue("bob"))
	require.False(t, ok)
}

func TestSession_VerifyRejectsTamperedUsername(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)

	token, err := s.Issue("bob")
	require.NoError(t, err)

	// Swap the payload for one naming another user, keeping the original
	// signature.
	_, sigB64, ok := strings.Cut(token, ".")
	require.True(t, ok)

	forged, err := json.Marshal(SessionClaims{
		Username:  "mallory",
		ExpiresAt: now.Add(time.Hour).Unix(),
		Type:      "admin_auth",
	})
	require.NoError(t, err)

	forgedToken := strings.Split(s.Codec.Encode(forged), ".")[0] + "." + sigB64
	_, valid := s.Verify(forgedToken)
	require.False(t, valid)
}

func TestSession_NeedsRenewal(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)

	token, err := s.Issue("bob")
	require.NoError(t, err)
	claims, ok := s.Verify(token)
	require.True(t, ok)

	// Fresh token: 24h remaining, no renewal.
	require.False(t, s.NeedsRenewal(claims))

	// 12h01m later: less than 12h remaining.
	s.Now = func() time.Time { return now.Add(12*time.Hour + time.Minute) }
	require.True(t, s.NeedsRenewal(claims))

	// Exactly 12h remaining is not yet inside the window.
	s.Now = func() time.Time { return now.Add(12 * time.Hour) }
	require.False(t, s.NeedsRenewal(claims))
}

func TestSession_RenewGrantsFullWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessionService(now)

	later := now.Add(13 * time.Hour)
	s.Now = func() time.Time { return later }

	token, err := s.Renew("bob")
	require.NoError(t, err)

	claims, ok := s.Verify(token)
	require.True(t, ok)
	require.Equal(t, later.Unix()+86400, claims.ExpiresAt)
}
