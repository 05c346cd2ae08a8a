package repository

import (
	"context"

	"github.com/chromacord/api/internal/entity"
	"gorm.io/gorm"
)

type LeaderboardRepository interface {
	// Top returns users ranked by lifetime activity points.
	Top(ctx context.Context, limit int) ([]entity.User, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) Top(ctx context.Context, limit int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Order("activity_points DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
