package models

import (
	"time"
)

// CacheEntry represents a cached value stored in the database fallback.
// Rate limit counters and revoked token ids live here when redis is disabled.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:256"`
	Value     []byte
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
