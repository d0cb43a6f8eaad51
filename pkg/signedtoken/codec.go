// Package signedtoken implements a compact HMAC-signed token format:
//
//	base64url_nopad(payload) + "." + base64url_nopad(hmac_sha256(secret, payload_b64))
//
// The signature is computed over the encoded payload half exactly as it
// appears in the token, so verification never re-pads before signing. The
// codec knows nothing about payload semantics; callers bring their own
// serialization.
package signedtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	// ErrMalformedToken reports a structurally invalid token: missing
	// separator, undecodable base64, or an empty half.
	ErrMalformedToken = errors.New("signedtoken: malformed token")

	// ErrInvalidSignature reports a well-formed token whose signature does
	// not match, either tampering or a different secret.
	ErrInvalidSignature = errors.New("signedtoken: invalid signature")
)

// Codec encodes and decodes signed tokens with a single symmetric secret.
// It is safe for concurrent use; the secret is read-only after construction.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with the given secret. The secret must be
// non-empty and should come from a cryptographically secure source.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode signs payload and returns the token string.
func (c *Codec) Encode(payload []byte) string {
	payloadB64 := base64.RawURLEncoding.EncodeToString(payload)
	return payloadB64 + "." + base64.RawURLEncoding.EncodeToString(c.sign(payloadB64))
}

// Decode verifies token and returns the raw payload bytes. Every structural
// failure maps to ErrMalformedToken and every signature mismatch to
// ErrInvalidSignature; no other errors escape.
func (c *Codec) Decode(token string) ([]byte, error) {
	payloadB64, sigB64, ok := strings.Cut(token, ".")
	if !ok || payloadB64 == "" || sigB64 == "" {
		return nil, ErrMalformedToken
	}

	payload, err := decodeSegment(payloadB64)
	if err != nil {
		return nil, ErrMalformedToken
	}
	sig, err := decodeSegment(sigB64)
	if err != nil {
		return nil, ErrMalformedToken
	}

	// Sign the payload half exactly as received, not the re-padded form.
	if !hmac.Equal(c.sign(payloadB64), sig) {
		return nil, ErrInvalidSignature
	}
	return payload, nil
}

func (c *Codec) sign(payloadB64 string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payloadB64))
	return mac.Sum(nil)
}

// decodeSegment restores stripped base64 padding before decoding so both
// padded and unpadded inputs are accepted.
func decodeSegment(s string) ([]byte, error) {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return base64.URLEncoding.DecodeString(s)
}
