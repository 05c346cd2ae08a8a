package repository

import (
	"context"

	"github.com/chromacord/api/internal/entity"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	// Record appends the log entry, increments the user's point total and
	// returns the new total. The pair runs in one transaction so it can never
	// be half-applied, and the increment's row lock serializes concurrent
	// records for the same user.
	Record(ctx context.Context, log *entity.ActivityLog) (int, error)
	LogsByUser(ctx context.Context, userID uint, limit int) ([]entity.ActivityLog, error)
	CreateTrophy(ctx context.Context, trophy *entity.Trophy) error
	TrophiesByUser(ctx context.Context, userID uint) ([]entity.Trophy, error)
	SetCurrentTitle(ctx context.Context, userID uint, title string) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Record(ctx context.Context, log *entity.ActivityLog) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.User{}).
			Where("id = ?", log.UserID).
			Update("activity_points", gorm.Expr("activity_points + ?", log.Points)).Error; err != nil {
			return err
		}

		var user entity.User
		if err := tx.Select("activity_points").First(&user, log.UserID).Error; err != nil {
			return err
		}
		total = user.ActivityPoints
		return nil
	})
	return total, err
}

func (r *activityRepository) LogsByUser(ctx context.Context, userID uint, limit int) ([]entity.ActivityLog, error) {
	var logs []entity.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *activityRepository) CreateTrophy(ctx context.Context, trophy *entity.Trophy) error {
	return r.db.WithContext(ctx).Create(trophy).Error
}

func (r *activityRepository) TrophiesByUser(ctx context.Context, userID uint) ([]entity.Trophy, error) {
	var trophies []entity.Trophy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&trophies).Error
	return trophies, err
}

func (r *activityRepository) SetCurrentTitle(ctx context.Context, userID uint, title string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userID).
		Update("current_title", title).Error
}
