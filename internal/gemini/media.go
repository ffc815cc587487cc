package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// MediaPayload is the raw bytes of one generated image or video.
type MediaPayload struct {
	Bytes    []byte
	MIMEType string
}

// GenerateImage renders a new image from a text prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt, aspectRatio string) (*MediaPayload, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("generate image: empty prompt")
	}
	cfg := &genai.GenerateImagesConfig{NumberOfImages: 1}
	if aspectRatio != "" {
		cfg.AspectRatio = aspectRatio
	}
	res, err := c.genai.Models.GenerateImages(ctx, c.catalog.Image.APIName, prompt, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(res.GeneratedImages) == 0 || res.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("generate image: model returned no image")
	}
	img := res.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &MediaPayload{Bytes: img.ImageBytes, MIMEType: mime}, nil
}

// EditImage reworks an existing image according to the prompt and returns
// the first image part of the reply.
func (c *Client) EditImage(ctx context.Context, prompt string, image []byte, mimeType string) (*MediaPayload, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("edit image: empty prompt")
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("edit image: no source image")
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	res, err := c.genai.Models.GenerateContent(ctx, c.catalog.ImageEdit.APIName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("edit image: %w", err)
	}
	for _, cand := range res.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return &MediaPayload{Bytes: part.InlineData.Data, MIMEType: mime}, nil
			}
		}
	}
	return nil, fmt.Errorf("edit image: model returned no image")
}

type videoPollFunc func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)

// GenerateVideo starts a video generation operation and polls it at the
// client's fixed interval until it completes.
func (c *Client) GenerateVideo(ctx context.Context, prompt, aspectRatio string) (*MediaPayload, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("generate video: empty prompt")
	}
	cfg := &genai.GenerateVideosConfig{}
	if aspectRatio != "" {
		cfg.AspectRatio = aspectRatio
	}

	op, err := c.genai.Models.GenerateVideos(ctx, c.catalog.Video.APIName, prompt, nil, cfg)
	if err != nil {
		return nil, fmt.Errorf("start video generation: %w", err)
	}
	op, err = awaitVideoOperation(ctx, op, c.pollInterval, func(ctx context.Context, cur *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		return c.genai.Operations.GetVideosOperation(ctx, cur, nil)
	})
	if err != nil {
		return nil, err
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return nil, fmt.Errorf("video generation finished without a video")
	}
	video := op.Response.GeneratedVideos[0]
	data, err := c.genai.Files.Download(ctx, video.Video, nil)
	if err != nil {
		return nil, fmt.Errorf("download generated video: %w", err)
	}
	if len(data) == 0 {
		data = video.Video.VideoBytes
	}
	mime := video.Video.MIMEType
	if mime == "" {
		mime = "video/mp4"
	}
	return &MediaPayload{Bytes: data, MIMEType: mime}, nil
}

// awaitVideoOperation re-fetches the operation at a fixed interval until it
// reports done or ctx is cancelled. The interval elapses before the first
// poll; the initial state comes from starting the operation.
func awaitVideoOperation(ctx context.Context, op *genai.GenerateVideosOperation, interval time.Duration, poll videoPollFunc) (*genai.GenerateVideosOperation, error) {
	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
		next, err := poll(ctx, op)
		if err != nil {
			return nil, fmt.Errorf("poll video operation: %w", err)
		}
		op = next
	}
	return op, nil
}
