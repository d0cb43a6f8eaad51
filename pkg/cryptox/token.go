package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
	// SecretSize is the byte length of the process signing secret.
	SecretSize = 32
)

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned as an unpadded base64url string.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateHex creates a cryptographically secure random value of the
// specified byte length, returned as a lowercase hex string. Used once per
// deployment for the process signing secret.
func GenerateHex(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("value size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random value: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
