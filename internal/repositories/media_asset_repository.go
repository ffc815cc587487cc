package repositories

import (
	"context"

	"gorm.io/gorm"

	"blankdigi/internal/models"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
	List(ctx context.Context) ([]models.MediaAsset, error)
	DeleteByPath(ctx context.Context, path string) error
}

type mediaAssetRepository struct {
	db *gorm.DB
}

func NewMediaAssetRepository(db *gorm.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// List returns all assets, newest first.
func (r *mediaAssetRepository) List(ctx context.Context) ([]models.MediaAsset, error) {
	var assets []models.MediaAsset
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *mediaAssetRepository) DeleteByPath(ctx context.Context, path string) error {
	return r.db.WithContext(ctx).Where("path = ?", path).Delete(&models.MediaAsset{}).Error
}
