package leaderboard

import (
	"context"
	"fmt"

	activity "github.com/chromacord/api/internal/modules/activity/service"
	leaderboardDto "github.com/chromacord/api/internal/modules/leaderboard/dto"
	leaderboardRepo "github.com/chromacord/api/internal/modules/leaderboard/repository"
	commonDto "github.com/chromacord/api/pkg/dto"
)

const defaultLimit = 10

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]leaderboardDto.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo leaderboardRepo.LeaderboardRepository
}

func NewLeaderboardService(repo leaderboardRepo.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

func (s *leaderboardService) Top(ctx context.Context, limit int) ([]leaderboardDto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}

	users, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]leaderboardDto.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, leaderboardDto.LeaderboardEntry{
			Rank:           i + 1,
			User:           commonDto.UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar},
			ActivityPoints: u.ActivityPoints,
			TitleStatus:    activity.TitleForPoints(u.ActivityPoints),
		})
	}
	return entries, nil
}
