package mocks

import (
	"context"

	"blankdigi/internal/models"
)

type ChatMessageRepositoryMock struct {
	AppendFunc             func(ctx context.Context, msg *models.ChatMessage) error
	ListByConversationFunc func(ctx context.Context, conversationID string) ([]models.ChatMessage, error)
}

func (m *ChatMessageRepositoryMock) Append(ctx context.Context, msg *models.ChatMessage) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, msg)
	}
	return nil
}

func (m *ChatMessageRepositoryMock) ListByConversation(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	if m.ListByConversationFunc != nil {
		return m.ListByConversationFunc(ctx, conversationID)
	}
	return nil, nil
}
