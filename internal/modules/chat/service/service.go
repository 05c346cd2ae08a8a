package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/chromacord/api/internal/entity"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	"github.com/chromacord/api/internal/modules/chat/broker"
	chatDto "github.com/chromacord/api/internal/modules/chat/dto"
	chatRepo "github.com/chromacord/api/internal/modules/chat/repository"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	commonDto "github.com/chromacord/api/pkg/dto"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

type ChatService interface {
	// Send persists the message, credits the sender and broadcasts the
	// stored row to every subscriber.
	Send(ctx context.Context, userID uint, input chatDto.SendChatInput) (*chatDto.ChatMessageResponse, error)
	History(ctx context.Context, limit int) ([]chatDto.ChatMessageResponse, error)
	// Remove deletes a message from the room history (moderation).
	Remove(ctx context.Context, id uint) error
	Subscribe(ctx context.Context) (<-chan []byte, func(), error)
}

type chatService struct {
	repo      chatRepo.ChatRepository
	userRepo  userRepo.UserRepository
	activity  activity.ActivityService
	broker    broker.Broker
	sanitizer *bluemonday.Policy
}

func NewChatService(repo chatRepo.ChatRepository, users userRepo.UserRepository, activitySvc activity.ActivityService, b broker.Broker) ChatService {
	return &chatService{
		repo:      repo,
		userRepo:  users,
		activity:  activitySvc,
		broker:    b,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *chatService) Send(ctx context.Context, userID uint, input chatDto.SendChatInput) (*chatDto.ChatMessageResponse, error) {
	body := strings.TrimSpace(s.sanitizer.Sanitize(input.Message))
	if body == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", apperror.ErrBadRequest)
	}

	sender, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sender: %w", err)
	}

	message := &entity.ChatMessage{
		UserID:  userID,
		Message: body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	s.activity.Record(ctx, userID, activity.ActionChatMessage)

	res := &chatDto.ChatMessageResponse{
		ID:        message.ID,
		UserID:    userID,
		Message:   message.Message,
		CreatedAt: message.CreatedAt,
		User: commonDto.UserSummary{
			ID:     sender.ID,
			Name:   sender.Name,
			Avatar: sender.Avatar,
		},
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat message: %w", err)
	}
	if err := s.broker.Publish(ctx, payload); err != nil {
		// the message is stored; subscribers catch up via history
		log.Printf("failed to broadcast chat message %d: %v", message.ID, err)
	}

	return res, nil
}

func (s *chatService) History(ctx context.Context, limit int) ([]chatDto.ChatMessageResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}

	messages, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	userIDs := make([]uint, 0, len(messages))
	seen := make(map[uint]bool, len(messages))
	for _, m := range messages {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			userIDs = append(userIDs, m.UserID)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up senders: %w", err)
	}
	byID := make(map[uint]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	responses := make([]chatDto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		sender := byID[m.UserID]
		responses = append(responses, chatDto.ChatMessageResponse{
			ID:        m.ID,
			UserID:    m.UserID,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
			User: commonDto.UserSummary{
				ID:     sender.ID,
				Name:   sender.Name,
				Avatar: sender.Avatar,
			},
		})
	}
	return responses, nil
}

func (s *chatService) Remove(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: chat message not found", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete chat message: %w", err)
	}
	return nil
}

func (s *chatService) Subscribe(ctx context.Context) (<-chan []byte, func(), error) {
	return s.broker.Subscribe(ctx)
}
