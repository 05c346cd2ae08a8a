package palette

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromacord/api/internal/entity"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	paletteDto "github.com/chromacord/api/internal/modules/palette/dto"
	paletteRepo "github.com/chromacord/api/internal/modules/palette/repository"
	search "github.com/chromacord/api/internal/modules/search/service"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type PaletteService interface {
	Create(ctx context.Context, userID uint, input paletteDto.CreatePaletteInput) (*paletteDto.PaletteResponse, error)
	ListOwn(ctx context.Context, userID uint) ([]paletteDto.PaletteResponse, error)
	ListPublic(ctx context.Context, limit int) ([]paletteDto.PaletteResponse, error)
	Get(ctx context.Context, id uint) (*paletteDto.PaletteResponse, error)
	Update(ctx context.Context, userID, id uint, input paletteDto.UpdatePaletteInput) error
	Delete(ctx context.Context, userID, id uint) error
	Like(ctx context.Context, userID, id uint) error
	Share(ctx context.Context, userID, paletteID, receiverID uint) error
	ListShared(ctx context.Context, userID uint) ([]paletteDto.PaletteResponse, error)
	Search(ctx context.Context, query string, limit int) ([]paletteDto.PaletteResponse, error)
}

type paletteService struct {
	repo      paletteRepo.PaletteRepository
	userRepo  userRepo.UserRepository
	activity  activity.ActivityService
	searchSvc search.SearchService
	sanitizer *bluemonday.Policy
}

func NewPaletteService(repo paletteRepo.PaletteRepository, userRepo userRepo.UserRepository, activitySvc activity.ActivityService, searchSvc search.SearchService) PaletteService {
	return &paletteService{
		repo:      repo,
		userRepo:  userRepo,
		activity:  activitySvc,
		searchSvc: searchSvc,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *paletteService) Create(ctx context.Context, userID uint, input paletteDto.CreatePaletteInput) (*paletteDto.PaletteResponse, error) {
	colors, err := json.Marshal(input.Colors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode colors: %w", err)
	}

	palette := &entity.Palette{
		UserID:      userID,
		Name:        s.sanitizer.Sanitize(input.Name),
		Description: s.sanitizeOptional(input.Description),
		Colors:      string(colors),
		IsPublic:    input.IsPublic,
	}

	if err := s.repo.Create(ctx, palette); err != nil {
		return nil, err
	}

	// Creating a palette always earns points; accrual failure never fails
	// the create.
	s.activity.Record(ctx, userID, activity.ActionPaletteCreated)

	if palette.IsPublic {
		s.indexPalette(palette)
	}

	return s.toResponse(palette, nil), nil
}

func (s *paletteService) ListOwn(ctx context.Context, userID uint) ([]paletteDto.PaletteResponse, error) {
	palettes, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(palettes), nil
}

func (s *paletteService) ListPublic(ctx context.Context, limit int) ([]paletteDto.PaletteResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	palettes, err := s.repo.FindPublic(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.toResponses(palettes), nil
}

func (s *paletteService) Get(ctx context.Context, id uint) (*paletteDto.PaletteResponse, error) {
	palette, err := s.findPalette(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(palette, nil), nil
}

func (s *paletteService) Update(ctx context.Context, userID, id uint, input paletteDto.UpdatePaletteInput) error {
	palette, err := s.findPalette(ctx, id)
	if err != nil {
		return err
	}
	if palette.UserID != userID {
		return apperror.ErrForbidden
	}

	fields := map[string]interface{}{}
	if input.Name != nil && *input.Name != "" {
		fields["name"] = s.sanitizer.Sanitize(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = s.sanitizeOptional(input.Description)
	}
	if input.Colors != nil {
		colors, err := json.Marshal(input.Colors)
		if err != nil {
			return fmt.Errorf("failed to encode colors: %w", err)
		}
		fields["colors"] = string(colors)
	}
	if input.IsPublic != nil {
		fields["is_public"] = *input.IsPublic
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return err
		}
	}

	updated, err := s.findPalette(ctx, id)
	if err != nil {
		return err
	}
	if updated.IsPublic {
		s.indexPalette(updated)
	} else if s.searchSvc != nil {
		if err := s.searchSvc.DeletePalette(id); err != nil {
			log.Printf("failed to drop palette %d from search index: %v", id, err)
		}
	}

	return nil
}

func (s *paletteService) Delete(ctx context.Context, userID, id uint) error {
	palette, err := s.findPalette(ctx, id)
	if err != nil {
		return err
	}
	if palette.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.DeletePalette(id); err != nil {
			log.Printf("failed to drop palette %d from search index: %v", id, err)
		}
	}

	return nil
}

func (s *paletteService) Like(ctx context.Context, userID, id uint) error {
	palette, err := s.findPalette(ctx, id)
	if err != nil {
		return err
	}
	if !palette.IsPublic && palette.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.IncrementLikes(ctx, id)
}

func (s *paletteService) Share(ctx context.Context, userID, paletteID, receiverID uint) error {
	palette, err := s.findPalette(ctx, paletteID)
	if err != nil {
		return err
	}
	if palette.UserID != userID {
		return apperror.ErrForbidden
	}

	if _, err := s.userRepo.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.repo.Share(ctx, &entity.SharedPalette{
		PaletteID:  paletteID,
		SenderID:   userID,
		ReceiverID: receiverID,
	})
}

func (s *paletteService) ListShared(ctx context.Context, userID uint) ([]paletteDto.PaletteResponse, error) {
	shares, err := s.repo.SharedWith(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]paletteDto.PaletteResponse, 0, len(shares))
	for _, share := range shares {
		palette, err := s.repo.FindByID(ctx, share.PaletteID)
		if err != nil {
			// Shared palettes can be deleted out from under the link.
			continue
		}
		sharedAt := share.CreatedAt
		responses = append(responses, *s.toResponse(palette, &sharedAt))
	}

	return responses, nil
}

func (s *paletteService) Search(ctx context.Context, query string, limit int) ([]paletteDto.PaletteResponse, error) {
	if s.searchSvc == nil {
		return []paletteDto.PaletteResponse{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	docs, err := s.searchSvc.SearchPalettes(query, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]paletteDto.PaletteResponse, 0, len(docs))
	for _, doc := range docs {
		var desc *string
		if doc.Description != "" {
			d := doc.Description
			desc = &d
		}
		responses = append(responses, paletteDto.PaletteResponse{
			ID:          doc.ID,
			UserID:      doc.UserID,
			Name:        doc.Name,
			Description: desc,
			Colors:      doc.Colors,
			IsPublic:    true,
			Likes:       doc.Likes,
		})
	}

	return responses, nil
}

func (s *paletteService) findPalette(ctx context.Context, id uint) (*entity.Palette, error) {
	palette, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return palette, nil
}

func (s *paletteService) indexPalette(palette *entity.Palette) {
	if s.searchSvc == nil {
		return
	}

	doc := search.PaletteDocument{
		ID:        palette.ID,
		UserID:    palette.UserID,
		Name:      palette.Name,
		Likes:     palette.Likes,
		CreatedAt: palette.CreatedAt.Unix(),
	}
	if palette.Description != nil {
		doc.Description = *palette.Description
	}
	if err := json.Unmarshal([]byte(palette.Colors), &doc.Colors); err != nil {
		log.Printf("failed to decode colors for palette %d: %v", palette.ID, err)
	}

	if err := s.searchSvc.IndexPalette(doc); err != nil {
		log.Printf("failed to index palette %d: %v", palette.ID, err)
	}
}

func (s *paletteService) toResponse(palette *entity.Palette, sharedAt *time.Time) *paletteDto.PaletteResponse {
	var colors []string
	if err := json.Unmarshal([]byte(palette.Colors), &colors); err != nil {
		log.Printf("failed to decode colors for palette %d: %v", palette.ID, err)
		colors = []string{}
	}

	return &paletteDto.PaletteResponse{
		ID:          palette.ID,
		UserID:      palette.UserID,
		Name:        palette.Name,
		Description: palette.Description,
		Colors:      colors,
		IsPublic:    palette.IsPublic,
		Likes:       palette.Likes,
		CreatedAt:   palette.CreatedAt,
		UpdatedAt:   palette.UpdatedAt,
		SharedAt:    sharedAt,
	}
}

func (s *paletteService) toResponses(palettes []entity.Palette) []paletteDto.PaletteResponse {
	responses := make([]paletteDto.PaletteResponse, 0, len(palettes))
	for i := range palettes {
		responses = append(responses, *s.toResponse(&palettes[i], nil))
	}
	return responses
}

func (s *paletteService) sanitizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	clean := s.sanitizer.Sanitize(*value)
	return &clean
}
