package mocks

import (
	"context"

	"blankdigi/internal/gemini"
)

type MediaGeneratorMock struct {
	GenerateImageFunc func(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error)
	EditImageFunc     func(ctx context.Context, prompt string, image []byte, mimeType string) (*gemini.MediaPayload, error)
	GenerateVideoFunc func(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error)
}

func (m *MediaGeneratorMock) GenerateImage(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error) {
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, aspectRatio)
	}
	return &gemini.MediaPayload{Bytes: []byte("mock-image"), MIMEType: "image/png"}, nil
}

func (m *MediaGeneratorMock) EditImage(ctx context.Context, prompt string, image []byte, mimeType string) (*gemini.MediaPayload, error) {
	if m.EditImageFunc != nil {
		return m.EditImageFunc(ctx, prompt, image, mimeType)
	}
	return &gemini.MediaPayload{Bytes: []byte("mock-image"), MIMEType: "image/png"}, nil
}

func (m *MediaGeneratorMock) GenerateVideo(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error) {
	if m.GenerateVideoFunc != nil {
		return m.GenerateVideoFunc(ctx, prompt, aspectRatio)
	}
	return &gemini.MediaPayload{Bytes: []byte("mock-video"), MIMEType: "video/mp4"}, nil
}
