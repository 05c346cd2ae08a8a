package entity

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is created on first login (upsert keyed by OpenID) and never hard-deleted.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OpenID       string  `gorm:"size:64;uniqueIndex;not null" json:"open_id"`
	Name         *string `gorm:"type:text" json:"name"`
	Email        *string `gorm:"size:320" json:"email,omitempty"`
	LoginMethod  *string `gorm:"size:64" json:"login_method,omitempty"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	Role         string  `gorm:"size:20;default:user;not null" json:"role"`

	Avatar *string `gorm:"type:text" json:"avatar,omitempty"`
	Bio    *string `gorm:"type:text" json:"bio,omitempty"`

	// Gamification. ActivityPoints is the authoritative counter; CurrentTitle
	// is a cached projection refreshed by the accrual path and the nightly job.
	ActivityPoints int     `gorm:"default:0;not null;index" json:"activity_points"`
	CurrentTitle   *string `gorm:"size:100" json:"current_title,omitempty"`

	LastSignedIn time.Time `gorm:"autoCreateTime" json:"last_signed_in"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
