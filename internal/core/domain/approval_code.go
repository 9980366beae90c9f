package domain

import (
	"errors"
	"time"
)

var ErrCodeInvalid = errors.New("invalid or expired approval code")
var ErrCodeExpiryOutOfRange = errors.New("code expiry must be between 1 and 168 hours")

// ApprovalCode is a short-lived, single-use secret authorising one role
// escalation. A code is redeemable only while UsedAt is nil and the current
// time is strictly before ExpiresAt; consumption sets UsedAt exactly once.
type ApprovalCode struct {
	ID        string
	Code      string
	Role      string
	ExpiresAt time.Time
	UsedAt    *time.Time
	IssuedBy  string
}

// Redeemable reports whether the code could still be consumed at the given
// instant for the given role. The persistent store enforces this atomically;
// this helper exists for callers that hold a copy.
func (c *ApprovalCode) Redeemable(role string, now time.Time) bool {
	return c.UsedAt == nil && c.Role == role && now.Before(c.ExpiresAt)
}
