package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lberndt/gatehouse/pkg/signedtoken"
)

// DefaultSuccessTokenMaxAge bounds how long a completed registration may
// still open its confirmation page.
const DefaultSuccessTokenMaxAge = 300 * time.Second

// SuccessService mints and verifies the short-lived token that proves a
// registration just completed. The payload is "<username>:<epochSeconds>";
// validity is measured against the issue time, not an embedded expiry.
// Replay inside the window is possible and accepted: the token only gates an
// informational page.
type SuccessService struct {
	Codec  *signedtoken.Codec
	MaxAge time.Duration // zero means DefaultSuccessTokenMaxAge

	Now func() time.Time // test hook; nil means time.Now
}

func (s *SuccessService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SuccessService) maxAge() time.Duration {
	if s.MaxAge > 0 {
		return s.MaxAge
	}
	return DefaultSuccessTokenMaxAge
}

// Issue mints a success token for username at the current time.
func (s *SuccessService) Issue(username string) string {
	payload := fmt.Sprintf("%s:%d", username, s.now().Unix())
	return s.Codec.Encode([]byte(payload))
}

// Verify checks token and returns the username it vouches for. Any failure
// reports ok=false. The age boundary is inclusive: a token aged exactly
// MaxAge is still valid, one second older is not.
func (s *SuccessService) Verify(token string) (string, bool) {
	payload, err := s.Codec.Decode(token)
	if err != nil {
		return "", false
	}

	username, stamp, found := strings.Cut(string(payload), ":")
	if !found || username == "" {
		return "", false
	}
	issuedAt, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return "", false
	}

	if s.now().Unix()-issuedAt > int64(s.maxAge().Seconds()) {
		return "", false
	}
	return username, true
}
