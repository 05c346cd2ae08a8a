package entity

import "time"

// Palette stores its color sequence as a JSON-encoded array of hex strings.
// The owner never changes; ownership checks live in the services.
type Palette struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Colors      string    `gorm:"type:text;not null" json:"-"`
	IsPublic    bool      `gorm:"default:false;not null;index" json:"is_public"`
	Likes       int       `gorm:"default:0;not null" json:"likes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SharedPalette links a palette to a receiver without copying it.
type SharedPalette struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PaletteID  uint      `gorm:"not null;index" json:"palette_id"`
	SenderID   uint      `gorm:"not null" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
