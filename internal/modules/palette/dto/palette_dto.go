package dto

import "time"

type CreatePaletteInput struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description *string  `json:"description"`
	Colors      []string `json:"colors" binding:"required,min=1,dive,hexcolor"`
	IsPublic    bool     `json:"is_public"`
}

type UpdatePaletteInput struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Colors      []string `json:"colors" binding:"omitempty,min=1,dive,hexcolor"`
	IsPublic    *bool    `json:"is_public"`
}

type SharePaletteInput struct {
	ReceiverID uint `json:"receiver_id" binding:"required"`
}

type PaletteResponse struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Colors      []string   `json:"colors"`
	IsPublic    bool       `json:"is_public"`
	Likes       int        `json:"likes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SharedAt    *time.Time `json:"shared_at,omitempty"`
}
