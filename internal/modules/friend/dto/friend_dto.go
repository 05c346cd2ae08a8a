package dto

import (
	"time"

	commonDto "github.com/chromacord/api/pkg/dto"
)

type SendRequestInput struct {
	FriendID uint `json:"friend_id" binding:"required"`
}

// FriendResponse is one accepted friendship seen from the requesting user's
// side, whichever direction the original request went.
type FriendResponse struct {
	FriendshipID uint                  `json:"friendship_id"`
	Friend       commonDto.UserSummary `json:"friend"`
	Since        time.Time             `json:"since"`
}

type FriendRequestResponse struct {
	ID        uint                  `json:"id"`
	Sender    commonDto.UserSummary `json:"sender"`
	Status    string                `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
}
