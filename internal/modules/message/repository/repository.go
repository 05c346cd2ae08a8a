package repository

import (
	"context"

	"github.com/chromacord/api/internal/entity"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.PrivateMessage) error
	// Conversation returns the latest two-way history between two users,
	// oldest first.
	Conversation(ctx context.Context, userID, friendID uint, limit int) ([]entity.PrivateMessage, error)
	MarkRead(ctx context.Context, id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.PrivateMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) Conversation(ctx context.Context, userID, friendID uint, limit int) ([]entity.PrivateMessage, error) {
	var messages []entity.PrivateMessage
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, friendID, friendID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&entity.PrivateMessage{}).
		Where("id = ?", id).
		Update("read", true).Error
}
