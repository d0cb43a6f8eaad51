// Package validation holds the input policy for registration forms.
package validation

import "regexp"

var (
	// Matrix localparts: lowercase letters, digits, and -_.=/ only.
	usernameRe = regexp.MustCompile(`^[a-z0-9\-_.=/]+$`)

	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[-_!@#$%^&*(),.?":{}|<>\[\]+]`)
)

// ValidUsername reports whether username is an acceptable account localpart:
// 1-255 characters from the allowed set.
func ValidUsername(username string) bool {
	if username == "" || len(username) > 255 {
		return false
	}
	return usernameRe.MatchString(username)
}

// StrongPassword reports whether password meets the minimum policy: at least
// 8 characters, one digit, and one special character.
func StrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	if !digitRe.MatchString(password) {
		return false
	}
	return specialRe.MatchString(password)
}
