package models

import (
	"time"
)

// User is an account holder. Email is stored lower-cased so uniqueness is case-insensitive.
type User struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;size:320;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Name        string `gorm:"not null" json:"name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	ProfileIcon string `json:"profile_icon"`

	IsVerified  bool       `gorm:"default:false" json:"is_verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	TaskLists []TaskList `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}
