package mocks

import (
	"context"

	"blankdigi/internal/models"
)

type MediaAssetRepositoryMock struct {
	CreateFunc       func(ctx context.Context, asset *models.MediaAsset) error
	ListFunc         func(ctx context.Context) ([]models.MediaAsset, error)
	DeleteByPathFunc func(ctx context.Context, path string) error
}

func (m *MediaAssetRepositoryMock) Create(ctx context.Context, asset *models.MediaAsset) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, asset)
	}
	return nil
}

func (m *MediaAssetRepositoryMock) List(ctx context.Context) ([]models.MediaAsset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MediaAssetRepositoryMock) DeleteByPath(ctx context.Context, path string) error {
	if m.DeleteByPathFunc != nil {
		return m.DeleteByPathFunc(ctx, path)
	}
	return nil
}
