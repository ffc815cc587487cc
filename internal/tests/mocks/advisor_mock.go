package mocks

import (
	"context"

	"blankdigi/internal/gemini"
	"blankdigi/internal/models"
)

type AdvisorMock struct {
	AdviceFunc func(ctx context.Context, req *gemini.AdviceRequest) (*models.AdviceReply, error)
}

func (m *AdvisorMock) Advice(ctx context.Context, req *gemini.AdviceRequest) (*models.AdviceReply, error) {
	if m.AdviceFunc != nil {
		return m.AdviceFunc(ctx, req)
	}
	return &models.AdviceReply{Content: "mock advice"}, nil
}
