package dto

import "time"

// UserSummary is the embedded author shape used by chat, friends and palettes.
type UserSummary struct {
	ID     uint    `json:"id"`
	Name   *string `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// TitleStatus is the derived-tier projection attached to profile and
// leaderboard responses.
type TitleStatus struct {
	Title         string  `json:"title"`
	NextTitle     string  `json:"next_title"`
	CurrentPoints int     `json:"current_points"`
	TargetPoints  int     `json:"target_points"`
	Progress      float64 `json:"progress"` // percentage toward the next title
}

// TrophyResponse mirrors an earned trophy.
type TrophyResponse struct {
	ID          uint      `json:"id"`
	TrophyType  string    `json:"trophy_type"`
	TrophyName  string    `json:"trophy_name"`
	Description *string   `json:"description,omitempty"`
	EarnedAt    time.Time `json:"earned_at"`
}
