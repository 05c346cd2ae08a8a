package repository

import (
	"context"

	"github.com/chromacord/api/internal/entity"
	"gorm.io/gorm"
)

type FriendRepository interface {
	CreateRequest(ctx context.Context, friendship *entity.Friendship) error
	FindByID(ctx context.Context, id uint) (*entity.Friendship, error)
	// PendingFor lists requests awaiting a decision by the receiver.
	PendingFor(ctx context.Context, receiverID uint) ([]entity.Friendship, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	// AcceptedOf lists accepted friendships involving the user in either
	// direction.
	AcceptedOf(ctx context.Context, userID uint) ([]entity.Friendship, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, friendship *entity.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *friendRepository) FindByID(ctx context.Context, id uint) (*entity.Friendship, error) {
	var friendship entity.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, id).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *friendRepository) PendingFor(ctx context.Context, receiverID uint) ([]entity.Friendship, error) {
	var requests []entity.Friendship
	err := r.db.WithContext(ctx).
		Where("friend_id = ? AND status = ?", receiverID, entity.FriendshipPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *friendRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Friendship{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *friendRepository) AcceptedOf(ctx context.Context, userID uint) ([]entity.Friendship, error) {
	var friendships []entity.Friendship
	err := r.db.WithContext(ctx).
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, entity.FriendshipAccepted).
		Order("updated_at DESC").
		Find(&friendships).Error
	return friendships, err
}
