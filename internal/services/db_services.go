package services

import (
	"context"

	"gorm.io/gorm"

	"blankdigi/internal/repositories"
)

// DbServices aggregates the database-backed services and repositories so
// main can wire them in one place.
type DbServices struct {
	AppSettings  AppSettingsService
	ChatMessages repositories.ChatMessageRepository
	MediaAssets  repositories.MediaAssetRepository
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	return &DbServices{
		AppSettings:  NewAppSettingsService(repositories.NewAppSettingsRepository(db)),
		ChatMessages: repositories.NewChatMessageRepository(db),
		MediaAssets:  repositories.NewMediaAssetRepository(db),
	}
}

// StartDbServices hands the runtime context to every contained service.
func (s *DbServices) StartDbServices(ctx context.Context) {
	s.AppSettings.Startup(ctx)
}
