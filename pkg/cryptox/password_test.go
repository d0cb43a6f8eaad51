package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	// Same password hashes to a different string because of the random salt.
	hash2, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("hunter2!", hash))
	require.Error(t, VerifyPassword("hunter3!", hash))
	require.Error(t, VerifyPassword("", hash))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"bad parameters", "$argon2id$v=19$m=?,t=?,p=?$c2FsdA$aGFzaA"},
		{"bad salt b64", "$argon2id$v=19$m=19456,t=2,p=1$!!$aGFzaA"},
		{"bad hash b64", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, VerifyPassword("whatever", tt.hash))
		})
	}
}
