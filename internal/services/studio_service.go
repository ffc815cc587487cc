package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yargevad/filepathx"

	"blankdigi/internal/events"
	"blankdigi/internal/gemini"
	"blankdigi/internal/models"
	"blankdigi/internal/repositories"
	"blankdigi/internal/utils"
)

// MediaGenerator is the slice of the generation provider the studio needs.
type MediaGenerator interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error)
	EditImage(ctx context.Context, prompt string, image []byte, mimeType string) (*gemini.MediaPayload, error)
	GenerateVideo(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error)
}

// StudioService drives the creative studio: image generation, image edits
// and prompt-to-video. Results land as files under the media directory with
// a MediaAsset row each. One generation runs at a time.
type StudioService struct {
	media    MediaGenerator
	assets   repositories.MediaAssetRepository
	mediaDir string

	mu   sync.Mutex
	busy bool

	context context.Context
}

func NewStudioService(media MediaGenerator, assets repositories.MediaAssetRepository, mediaDir string) *StudioService {
	return &StudioService{media: media, assets: assets, mediaDir: mediaDir}
}

func (s *StudioService) Startup(ctx context.Context) {
	s.context = ctx
}

// Generate renders a new image from a prompt.
func (s *StudioService) Generate(prompt, aspectRatio string) (*models.StudioResult, error) {
	return s.run(models.StudioModeGenerate, prompt, aspectRatio, func(ctx context.Context) (*gemini.MediaPayload, error) {
		return s.media.GenerateImage(ctx, prompt, aspectRatio)
	})
}

// Edit reworks an uploaded image according to the prompt. The source image
// arrives base64-encoded from the UI.
func (s *StudioService) Edit(prompt, imageBase64, mimeType string) (*models.StudioResult, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("source image is empty")
	}
	return s.run(models.StudioModeEdit, prompt, "", func(ctx context.Context) (*gemini.MediaPayload, error) {
		return s.media.EditImage(ctx, prompt, data, mimeType)
	})
}

// Animate generates a video from a prompt. This blocks while the backend
// operation is polled to completion, which routinely takes minutes.
func (s *StudioService) Animate(prompt, aspectRatio string) (*models.StudioResult, error) {
	return s.run(models.StudioModeAnimate, prompt, aspectRatio, func(ctx context.Context) (*gemini.MediaPayload, error) {
		return s.media.GenerateVideo(ctx, prompt, aspectRatio)
	})
}

func (s *StudioService) run(mode, prompt, aspectRatio string, generate func(context.Context) (*gemini.MediaPayload, error)) (*models.StudioResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("prompt is empty")
	}
	if !s.tryAcquire() {
		return nil, fmt.Errorf("ERR_STUDIO_BUSY:a generation is already running")
	}
	defer s.release()

	ctx := s.ctx()
	events.Emit(ctx, events.StudioProgress, events.NewInfo(mode+" started"))

	payload, err := generate(ctx)
	if err != nil {
		events.Emit(ctx, events.StudioDone, events.NewError(mode+" failed: "+err.Error()))
		return nil, err
	}

	asset, err := s.saveAsset(ctx, mode, prompt, aspectRatio, payload)
	if err != nil {
		events.Emit(ctx, events.StudioDone, events.NewError(mode+" failed: "+err.Error()))
		return nil, err
	}

	result := &models.StudioResult{
		AssetID:     asset.ID,
		Kind:        asset.Kind,
		Mode:        mode,
		Prompt:      prompt,
		AspectRatio: aspectRatio,
		Path:        asset.Path,
		MIMEType:    asset.MIMEType,
		Data:        base64.StdEncoding.EncodeToString(payload.Bytes),
	}
	events.Emit(ctx, events.StudioDone, events.NewSuccess(mode+" finished").WithPayload(asset.Path))
	return result, nil
}

func (s *StudioService) saveAsset(ctx context.Context, mode, prompt, aspectRatio string, payload *gemini.MediaPayload) (*models.MediaAsset, error) {
	if err := utils.EnsureDir(s.mediaDir); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}

	kind := models.MediaKindImage
	if mode == models.StudioModeAnimate {
		kind = models.MediaKindVideo
	}
	name := uuid.NewString() + extensionFor(payload.MIMEType, kind)
	path := filepath.Join(s.mediaDir, name)
	if err := os.WriteFile(path, payload.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("write media file: %w", err)
	}

	asset := &models.MediaAsset{
		Kind:        kind,
		Mode:        mode,
		Prompt:      prompt,
		AspectRatio: aspectRatio,
		Path:        path,
		MIMEType:    payload.MIMEType,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("record media asset: %w", err)
	}
	return asset, nil
}

// Library lists the saved assets, newest first. Rows whose files vanished
// are dropped, and media files placed in the directory by hand show up as
// untracked entries with ID 0.
func (s *StudioService) Library() ([]models.MediaAsset, error) {
	ctx := s.ctx()
	rows, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media assets: %w", err)
	}

	known := make(map[string]bool, len(rows))
	kept := make([]models.MediaAsset, 0, len(rows))
	for _, asset := range rows {
		if _, err := os.Stat(asset.Path); err != nil {
			_ = s.assets.DeleteByPath(ctx, asset.Path)
			continue
		}
		known[asset.Path] = true
		kept = append(kept, asset)
	}

	matches, err := filepathx.Glob(filepath.Join(s.mediaDir, "**", "*"))
	if err != nil {
		return kept, nil
	}
	for _, match := range matches {
		if known[match] {
			continue
		}
		kind, mime := classifyMediaFile(match)
		if kind == "" {
			continue
		}
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		kept = append(kept, models.MediaAsset{
			Kind:      kind,
			Path:      match,
			MIMEType:  mime,
			CreatedAt: info.ModTime(),
		})
	}
	return kept, nil
}

func (s *StudioService) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *StudioService) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *StudioService) ctx() context.Context {
	if s.context != nil {
		return s.context
	}
	return context.Background()
}

func extensionFor(mimeType, kind string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	}
	if kind == models.MediaKindVideo {
		return ".mp4"
	}
	return ".png"
}

func classifyMediaFile(path string) (kind, mime string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return models.MediaKindImage, "image/png"
	case ".jpg", ".jpeg":
		return models.MediaKindImage, "image/jpeg"
	case ".webp":
		return models.MediaKindImage, "image/webp"
	case ".mp4":
		return models.MediaKindVideo, "video/mp4"
	}
	return "", ""
}
