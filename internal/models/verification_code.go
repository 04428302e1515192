package models

import "time"

// VerificationCode is a short-lived numeric credential bound to an email address.
// Only the hash of the code is persisted.
type VerificationCode struct {
	BaseModel

	Email      string     `gorm:"size:320;not null;index" json:"email"`
	CodeHash   string     `gorm:"size:64;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"index" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// Active reports whether the code can still be redeemed at now.
func (v *VerificationCode) Active(now time.Time) bool {
	return v.ConsumedAt == nil && now.Before(v.ExpiresAt)
}
