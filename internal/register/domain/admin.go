package domain

import "time"

// AdminUser is an administrator identity. PasswordHash is an opaque PHC
// string produced by the hashing capability; cleartext is never stored.
type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time
}
