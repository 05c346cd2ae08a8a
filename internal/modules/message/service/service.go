package message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromacord/api/internal/entity"
	messageDto "github.com/chromacord/api/internal/modules/message/dto"
	messageRepo "github.com/chromacord/api/internal/modules/message/repository"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type MessageService interface {
	Send(ctx context.Context, senderID uint, input messageDto.SendMessageInput) (*entity.PrivateMessage, error)
	Conversation(ctx context.Context, userID, friendID uint, limit int) ([]entity.PrivateMessage, error)
	MarkRead(ctx context.Context, messageID uint) error
}

type messageService struct {
	repo      messageRepo.MessageRepository
	userRepo  userRepo.UserRepository
	sanitizer *bluemonday.Policy
}

func NewMessageService(repo messageRepo.MessageRepository, users userRepo.UserRepository) MessageService {
	return &messageService{
		repo:      repo,
		userRepo:  users,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *messageService) Send(ctx context.Context, senderID uint, input messageDto.SendMessageInput) (*entity.PrivateMessage, error) {
	if input.ReceiverID == senderID {
		return nil, fmt.Errorf("%w: cannot message yourself", apperror.ErrBadRequest)
	}

	body := strings.TrimSpace(s.sanitizer.Sanitize(input.Message))
	if body == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", apperror.ErrBadRequest)
	}

	if _, err := s.userRepo.FindByID(ctx, input.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	message := &entity.PrivateMessage{
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Message:    body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return message, nil
}

func (s *messageService) Conversation(ctx context.Context, userID, friendID uint, limit int) ([]entity.PrivateMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	messages, err := s.repo.Conversation(ctx, userID, friendID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return messages, nil
}

func (s *messageService) MarkRead(ctx context.Context, messageID uint) error {
	if err := s.repo.MarkRead(ctx, messageID); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}
