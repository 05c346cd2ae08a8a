package friend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chromacord/api/internal/entity"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	friendDto "github.com/chromacord/api/internal/modules/friend/dto"
	friendRepo "github.com/chromacord/api/internal/modules/friend/repository"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	commonDto "github.com/chromacord/api/pkg/dto"
	"github.com/chromacord/api/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const actionFriendRequest = "friend_request"

type FriendService interface {
	SendRequest(ctx context.Context, userID uint, input friendDto.SendRequestInput) (*friendDto.FriendRequestResponse, error)
	ListRequests(ctx context.Context, userID uint) ([]friendDto.FriendRequestResponse, error)
	Accept(ctx context.Context, userID, requestID uint) error
	Reject(ctx context.Context, userID, requestID uint) error
	ListFriends(ctx context.Context, userID uint) ([]friendDto.FriendResponse, error)
}

type friendService struct {
	repo          friendRepo.FriendRepository
	userRepo      userRepo.UserRepository
	activity      activity.ActivityService
	rdb           *redis.Client
	requestWindow time.Duration
}

func NewFriendService(repo friendRepo.FriendRepository, users userRepo.UserRepository, activitySvc activity.ActivityService, rdb *redis.Client, requestWindow time.Duration) FriendService {
	return &friendService{
		repo:          repo,
		userRepo:      users,
		activity:      activitySvc,
		rdb:           rdb,
		requestWindow: requestWindow,
	}
}

func (s *friendService) SendRequest(ctx context.Context, userID uint, input friendDto.SendRequestInput) (*friendDto.FriendRequestResponse, error) {
	if input.FriendID == userID {
		return nil, fmt.Errorf("%w: cannot send a friend request to yourself", apperror.ErrBadRequest)
	}

	if _, err := s.userRepo.FindByID(ctx, input.FriendID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	allowed, err := ratelimit.CheckAndSet(ctx, s.rdb, userID, actionFriendRequest, s.requestWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		message := "please wait before sending another friend request"
		if remaining, err := ratelimit.TTL(ctx, s.rdb, userID, actionFriendRequest); err == nil && remaining > 0 {
			message = fmt.Sprintf("please wait %s before sending another friend request", remaining.Round(time.Second))
		}
		return nil, apperror.New(http.StatusTooManyRequests, message, apperror.ErrRateLimitExceeded)
	}

	friendship := &entity.Friendship{
		UserID:   userID,
		FriendID: input.FriendID,
		Status:   entity.FriendshipPending,
	}
	if err := s.repo.CreateRequest(ctx, friendship); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	sender, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return toRequestResponse(friendship, sender), nil
}

func (s *friendService) ListRequests(ctx context.Context, userID uint) ([]friendDto.FriendRequestResponse, error) {
	requests, err := s.repo.PendingFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}

	senderIDs := make([]uint, 0, len(requests))
	for _, req := range requests {
		senderIDs = append(senderIDs, req.UserID)
	}
	senders, err := s.summaries(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]friendDto.FriendRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, friendDto.FriendRequestResponse{
			ID:        req.ID,
			Sender:    senders[req.UserID],
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		})
	}
	return responses, nil
}

func (s *friendService) Accept(ctx context.Context, userID, requestID uint) error {
	request, err := s.findRequest(ctx, userID, requestID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, request.ID, entity.FriendshipAccepted); err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	s.activity.Record(ctx, userID, activity.ActionFriendAdded)
	return nil
}

func (s *friendService) Reject(ctx context.Context, userID, requestID uint) error {
	request, err := s.findRequest(ctx, userID, requestID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, request.ID, entity.FriendshipRejected); err != nil {
		return fmt.Errorf("failed to reject friend request: %w", err)
	}
	return nil
}

func (s *friendService) ListFriends(ctx context.Context, userID uint) ([]friendDto.FriendResponse, error) {
	friendships, err := s.repo.AcceptedOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	friendIDs := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		friendIDs = append(friendIDs, otherSide(&f, userID))
	}
	friends, err := s.summaries(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]friendDto.FriendResponse, 0, len(friendships))
	for _, f := range friendships {
		responses = append(responses, friendDto.FriendResponse{
			FriendshipID: f.ID,
			Friend:       friends[otherSide(&f, userID)],
			Since:        f.UpdatedAt,
		})
	}
	return responses, nil
}

// findRequest loads a pending request and enforces that only the receiver
// may decide it.
func (s *friendService) findRequest(ctx context.Context, userID, requestID uint) (*entity.Friendship, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: friend request not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up friend request: %w", err)
	}

	if request.FriendID != userID {
		return nil, fmt.Errorf("%w: only the receiver can respond to a friend request", apperror.ErrForbidden)
	}
	if request.Status != entity.FriendshipPending {
		return nil, fmt.Errorf("%w: friend request already resolved", apperror.ErrBadRequest)
	}
	return request, nil
}

func (s *friendService) summaries(ctx context.Context, ids []uint) (map[uint]commonDto.UserSummary, error) {
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	byID := make(map[uint]commonDto.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = commonDto.UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return byID, nil
}

func otherSide(f *entity.Friendship, userID uint) uint {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

func toRequestResponse(f *entity.Friendship, sender *entity.User) *friendDto.FriendRequestResponse {
	return &friendDto.FriendRequestResponse{
		ID:        f.ID,
		Sender:    commonDto.UserSummary{ID: sender.ID, Name: sender.Name, Avatar: sender.Avatar},
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
	}
}
