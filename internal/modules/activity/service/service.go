package activity

import (
	"context"
	"fmt"
	"log"

	"github.com/chromacord/api/internal/entity"
	activityRepo "github.com/chromacord/api/internal/modules/activity/repository"
)

const (
	ActionPaletteCreated = "palette_created"
	ActionFriendAdded    = "friend_added"
	ActionChatMessage    = "chat_message"

	PointsPaletteCreated = 10
	PointsFriendAdded    = 5
	PointsChatMessage    = 1
)

// pointsFor is the accrual rule table. Unknown actions earn nothing.
func pointsFor(actionType string) (int, bool) {
	switch actionType {
	case ActionPaletteCreated:
		return PointsPaletteCreated, true
	case ActionFriendAdded:
		return PointsFriendAdded, true
	case ActionChatMessage:
		return PointsChatMessage, true
	default:
		return 0, false
	}
}

type ActivityService interface {
	// Record credits the user for the action. Failures are logged and
	// swallowed: the triggering primary write must never fail because
	// accrual did.
	Record(ctx context.Context, userID uint, actionType string)
	LogsByUser(ctx context.Context, userID uint, limit int) ([]entity.ActivityLog, error)
	TrophiesByUser(ctx context.Context, userID uint) ([]entity.Trophy, error)
}

type activityService struct {
	repo activityRepo.ActivityRepository
}

func NewActivityService(repo activityRepo.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) Record(ctx context.Context, userID uint, actionType string) {
	points, ok := pointsFor(actionType)
	if !ok {
		log.Printf("unknown activity action type: %s", actionType)
		return
	}

	logEntry := &entity.ActivityLog{
		UserID:       userID,
		ActivityType: actionType,
		Points:       points,
	}

	// The total comes back from the accrual transaction itself, so two
	// concurrent records can never decide the same threshold crossing.
	total, err := s.repo.Record(ctx, logEntry)
	if err != nil {
		log.Printf("failed to record %s for user %d: %v", actionType, userID, err)
		return
	}

	s.checkPromotion(ctx, userID, total-points, total)
}

// checkPromotion awards a trophy and refreshes the cached title when the new
// total crosses a threshold.
func (s *activityService) checkPromotion(ctx context.Context, userID uint, before, after int) {
	previousTitle := TitleForPoints(before).Title
	newTitle := TitleForPoints(after).Title
	if newTitle == previousTitle {
		return
	}

	desc := fmt.Sprintf("Reached the %s title with %d points", newTitle, after)
	trophy := &entity.Trophy{
		UserID:      userID,
		TrophyType:  "title",
		TrophyName:  newTitle,
		Description: &desc,
	}
	if err := s.repo.CreateTrophy(ctx, trophy); err != nil {
		log.Printf("failed to award %s trophy to user %d: %v", newTitle, userID, err)
	}

	if err := s.repo.SetCurrentTitle(ctx, userID, newTitle); err != nil {
		log.Printf("failed to refresh cached title for user %d: %v", userID, err)
	}
}

func (s *activityService) LogsByUser(ctx context.Context, userID uint, limit int) ([]entity.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.LogsByUser(ctx, userID, limit)
}

func (s *activityService) TrophiesByUser(ctx context.Context, userID uint) ([]entity.Trophy, error) {
	return s.repo.TrophiesByUser(ctx, userID)
}
