package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/chromacord/api/internal/entity"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	profileDto "github.com/chromacord/api/internal/modules/profile/dto"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/chromacord/api/pkg/storage"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// MaxAvatarSize caps avatar uploads at 5 MB.
const MaxAvatarSize = 5 << 20

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type AvatarUpload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}

type ProfileService interface {
	Get(ctx context.Context, targetID uint, includePrivate bool) (*profileDto.ProfileResponse, error)
	Update(ctx context.Context, userID uint, input profileDto.UpdateProfileInput) (*profileDto.ProfileResponse, error)
	// UploadAvatar validates the file, stores it and swaps the account's
	// avatar URL. The previous avatar is removed best-effort.
	UploadAvatar(ctx context.Context, userID uint, upload AvatarUpload) (string, error)
	Trophies(ctx context.Context, userID uint) ([]entity.Trophy, error)
	Activity(ctx context.Context, userID uint, limit int) ([]entity.ActivityLog, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	activity     activity.ActivityService
	imageStorage storage.ImageStorage
	sanitizer    *bluemonday.Policy
}

func NewProfileService(repo userRepo.UserRepository, activitySvc activity.ActivityService, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		repo:         repo,
		activity:     activitySvc,
		imageStorage: imageStorage,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (s *profileService) Get(ctx context.Context, targetID uint, includePrivate bool) (*profileDto.ProfileResponse, error) {
	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return toResponse(user, includePrivate), nil
}

func (s *profileService) Update(ctx context.Context, userID uint, input profileDto.UpdateProfileInput) (*profileDto.ProfileResponse, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Name != nil {
		name := strings.TrimSpace(s.sanitizer.Sanitize(*input.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperror.ErrBadRequest)
		}
		fields["name"] = name
	}
	if input.Bio != nil {
		fields["bio"] = strings.TrimSpace(s.sanitizer.Sanitize(*input.Bio))
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateProfile(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	updated, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(updated, true), nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uint, upload AvatarUpload) (string, error) {
	if !allowedAvatarTypes[upload.ContentType] {
		return "", fmt.Errorf("%w: avatar must be a jpeg, png, webp or gif image", apperror.ErrInvalidInput)
	}
	if upload.Size > MaxAvatarSize {
		return "", fmt.Errorf("%w: avatar must be 5MB or smaller", apperror.ErrInvalidInput)
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.imageStorage == nil {
		return "", fmt.Errorf("%w: image storage is not configured", apperror.ErrInternal)
	}

	url, err := s.imageStorage.UploadImage(ctx, upload.Reader, "avatars", upload.FileName)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.repo.UpdateProfile(ctx, userID, map[string]interface{}{"avatar": url}); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	if user.Avatar != nil && *user.Avatar != "" {
		if err := s.imageStorage.DeleteImage(ctx, *user.Avatar); err != nil {
			log.Printf("failed to delete previous avatar for user %d: %v", userID, err)
		}
	}

	return url, nil
}

func (s *profileService) Trophies(ctx context.Context, userID uint) ([]entity.Trophy, error) {
	return s.activity.TrophiesByUser(ctx, userID)
}

func (s *profileService) Activity(ctx context.Context, userID uint, limit int) ([]entity.ActivityLog, error) {
	return s.activity.LogsByUser(ctx, userID, limit)
}

func (s *profileService) findUser(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

func toResponse(user *entity.User, includePrivate bool) *profileDto.ProfileResponse {
	res := &profileDto.ProfileResponse{
		ID:             user.ID,
		Name:           user.Name,
		Avatar:         user.Avatar,
		Bio:            user.Bio,
		CurrentTitle:   user.CurrentTitle,
		ActivityPoints: user.ActivityPoints,
		TitleStatus:    activity.TitleForPoints(user.ActivityPoints),
		CreatedAt:      user.CreatedAt,
	}
	if includePrivate {
		res.Email = user.Email
	}
	return res
}
