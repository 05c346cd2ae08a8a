package dto

import (
	"time"

	commonDto "github.com/chromacord/api/pkg/dto"
)

type UpdateProfileInput struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
	Bio  *string `json:"bio" binding:"omitempty,max=500"`
}

// ProfileResponse carries the account plus the derived title standing.
// Email is only present on the owner's own view.
type ProfileResponse struct {
	ID             uint                  `json:"id"`
	Name           *string               `json:"name"`
	Email          *string               `json:"email,omitempty"`
	Avatar         *string               `json:"avatar,omitempty"`
	Bio            *string               `json:"bio,omitempty"`
	CurrentTitle   *string               `json:"current_title,omitempty"`
	ActivityPoints int                   `json:"activity_points"`
	TitleStatus    commonDto.TitleStatus `json:"title_status"`
	CreatedAt      time.Time             `json:"created_at"`
}
