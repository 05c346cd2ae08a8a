package repository

import (
	"context"

	"github.com/chromacord/api/internal/entity"
	"gorm.io/gorm"
)

type PaletteRepository interface {
	Create(ctx context.Context, palette *entity.Palette) error
	FindByID(ctx context.Context, id uint) (*entity.Palette, error)
	FindByUser(ctx context.Context, userID uint) ([]entity.Palette, error)
	FindPublic(ctx context.Context, limit int) ([]entity.Palette, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	IncrementLikes(ctx context.Context, id uint) error
	Share(ctx context.Context, share *entity.SharedPalette) error
	SharedWith(ctx context.Context, userID uint) ([]entity.SharedPalette, error)
}

type paletteRepository struct {
	db *gorm.DB
}

func NewPaletteRepository(db *gorm.DB) PaletteRepository {
	return &paletteRepository{db: db}
}

func (r *paletteRepository) Create(ctx context.Context, palette *entity.Palette) error {
	return r.db.WithContext(ctx).Create(palette).Error
}

func (r *paletteRepository) FindByID(ctx context.Context, id uint) (*entity.Palette, error) {
	var palette entity.Palette
	if err := r.db.WithContext(ctx).First(&palette, id).Error; err != nil {
		return nil, err
	}
	return &palette, nil
}

func (r *paletteRepository) FindByUser(ctx context.Context, userID uint) ([]entity.Palette, error) {
	var palettes []entity.Palette
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&palettes).Error
	return palettes, err
}

func (r *paletteRepository) FindPublic(ctx context.Context, limit int) ([]entity.Palette, error) {
	var palettes []entity.Palette
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&palettes).Error
	return palettes, err
}

func (r *paletteRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Palette{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *paletteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Palette{}, id).Error
}

func (r *paletteRepository) IncrementLikes(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Palette{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("likes + 1")).Error
}

func (r *paletteRepository) Share(ctx context.Context, share *entity.SharedPalette) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *paletteRepository) SharedWith(ctx context.Context, userID uint) ([]entity.SharedPalette, error) {
	var shares []entity.SharedPalette
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Find(&shares).Error
	return shares, err
}
