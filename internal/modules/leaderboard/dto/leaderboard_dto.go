package dto

import (
	commonDto "github.com/chromacord/api/pkg/dto"
)

type LeaderboardEntry struct {
	Rank           int                   `json:"rank"`
	User           commonDto.UserSummary `json:"user"`
	ActivityPoints int                   `json:"activity_points"`
	TitleStatus    commonDto.TitleStatus `json:"title_status"`
}
