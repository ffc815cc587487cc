package repositories

import (
	"context"

	"gorm.io/gorm"

	"blankdigi/internal/models"
)

type ChatMessageRepository interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	ListByConversation(ctx context.Context, conversationID string) ([]models.ChatMessage, error)
}

type chatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

func (r *chatMessageRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByConversation returns a conversation's messages in insertion order.
func (r *chatMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
