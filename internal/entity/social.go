package entity

import "time"

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Friendship is directional in storage (UserID sent the request to FriendID)
// but treated as symmetric once accepted. Only the receiver may change status.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FriendID  uint      `gorm:"not null;index" json:"friend_id"`
	Status    string    `gorm:"size:20;default:pending;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type PrivateMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Read       bool      `gorm:"default:false;not null" json:"read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
