package entity

import "time"

// ActivityLog is the append-only audit trail of point-earning actions.
// The sum of Points per user reconciles with users.activity_points because
// both writes happen in the same transaction.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_activity_user_date,priority:1" json:"user_id"`
	ActivityType string    `gorm:"size:100;not null" json:"activity_type"` // 'palette_created', 'friend_added', 'chat_message'
	Points       int       `gorm:"not null" json:"points"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_activity_user_date,priority:2" json:"created_at"`
}

// Trophy is an immutable earned achievement.
type Trophy struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	TrophyType  string    `gorm:"size:100;not null" json:"trophy_type"`
	TrophyName  string    `gorm:"size:255;not null" json:"trophy_name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	EarnedAt    time.Time `gorm:"autoCreateTime" json:"earned_at"`
}
