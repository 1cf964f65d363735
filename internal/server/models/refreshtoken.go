package models

import "time"

// RefreshToken is a row of refresh_tokens. IsRevoked is read on refresh but
// no flow sets it; logout deletes the row instead.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// Expired reports whether the row is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
