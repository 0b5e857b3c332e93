package models

import "time"

// QRToken is a single-use credential-exchange record for cross-device login.
// A token is created by an authenticated device with its owner preset, and is
// consumed at most once: ScannedAt being non-nil is the sole redemption gate.
// ExpiresAt, when set, is checked at read time; it is not a state of its own.
type QRToken struct {
	Base
	UserID    *string    `gorm:"type:uuid;index" json:"uid,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
}

// Redeemed reports whether the token has already been consumed.
func (t *QRToken) Redeemed() bool {
	return t.ScannedAt != nil
}

// Expired reports whether the token's expiry, if set, lies before now.
func (t *QRToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
