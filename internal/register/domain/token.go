package domain

import "time"

// InviteToken is a single-use registration token. The opaque random Value is
// the lookup key handed out to invitees; once Used flips to true it never
// flips back.
type InviteToken struct {
	ID        int64
	Value     string
	Used      bool
	CreatedAt time.Time
	UsedAt    *time.Time
	UsedBy    *string
	IPAddress *string // Origin of the minting request, when known
}

// TokenFilter selects which invite tokens to list.
type TokenFilter string

const (
	FilterAll    TokenFilter = "all"
	FilterUsed   TokenFilter = "used"
	FilterUnused TokenFilter = "unused"
)

// ParseTokenFilter maps a query-string value onto a filter, defaulting to all.
func ParseTokenFilter(s string) TokenFilter {
	switch TokenFilter(s) {
	case FilterUsed:
		return FilterUsed
	case FilterUnused:
		return FilterUnused
	default:
		return FilterAll
	}
}

// TokenStats summarizes the invite token table.
type TokenStats struct {
	Total  int
	Used   int
	Unused int
}
