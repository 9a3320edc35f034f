package models

import "time"

// VerificationSession tracks one in-flight email verification. It exists from
// the moment a code is issued until the booking attempt ends, keyed by ID.
type VerificationSession struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
	Confirmed bool      `json:"confirmed"`
}

// Expired reports whether the issued code is older than the validity window.
func (s *VerificationSession) Expired(now time.Time, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	return now.Sub(s.IssuedAt) > window
}
