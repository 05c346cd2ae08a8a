package dto

import (
	"time"

	commonDto "github.com/chromacord/api/pkg/dto"
)

type SendChatInput struct {
	Message string `json:"message" binding:"required,max=1000"`
}

// ChatMessageResponse is the broadcast payload. The embedded user is resolved
// from the sender's account, never taken from the client.
type ChatMessageResponse struct {
	ID        uint                  `json:"id"`
	UserID    uint                  `json:"user_id"`
	Message   string                `json:"message"`
	CreatedAt time.Time             `json:"created_at"`
	User      commonDto.UserSummary `json:"user"`
}
