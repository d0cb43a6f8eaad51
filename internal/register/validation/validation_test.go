package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"alice-01", true},
		{"a_b.c=d/e", true},
		{"", false},
		{"Alice", false},
		{"alice smith", false},
		{"alice@example", false},
		{strings.Repeat("a", 255), true},
		{strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			require.Equal(t, tt.want, ValidUsername(tt.username))
		})
	}
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"good", "s3cret!pw", true},
		{"too short", "s3c!", false},
		{"no digit", "secret!pw", false},
		{"no special", "s3cretpw0", false},
		{"exactly eight", "s3cret!a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StrongPassword(tt.password))
		})
	}
}
