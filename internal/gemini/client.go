package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"blankdigi/internal/assets"
)

// ModelInfo describes one entry of the embedded model catalog.
type ModelInfo struct {
	APIName        string `json:"apiName"`
	DisplayName    string `json:"displayName"`
	ThinkingBudget int32  `json:"thinkingBudget,omitempty"`
}

// Catalog lists the generation models the suite uses, keyed by task.
type Catalog struct {
	Advice       ModelInfo `json:"advice"`
	Image        ModelInfo `json:"image"`
	ImageEdit    ModelInfo `json:"imageEdit"`
	Video        ModelInfo `json:"video"`
	AspectRatios []string  `json:"aspectRatios"`
}

// LoadCatalog parses the embedded model catalog.
func LoadCatalog() (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(assets.ModelsData, &c); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	for _, m := range []ModelInfo{c.Advice, c.Image, c.ImageEdit, c.Video} {
		if strings.TrimSpace(m.APIName) == "" {
			return nil, fmt.Errorf("model catalog: entry without apiName")
		}
	}
	return &c, nil
}

const defaultPollInterval = 10 * time.Second

// Client wraps the Gemini SDK with the suite's generation operations.
type Client struct {
	genai        *genai.Client
	catalog      *Catalog
	pollInterval time.Duration
}

// Options tunes client behaviour. Zero values fall back to defaults.
type Options struct {
	// PollInterval is the fixed delay between video operation polls.
	PollInterval time.Duration
}

func New(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Client{genai: gc, catalog: catalog, pollInterval: interval}, nil
}

// Catalog exposes the loaded model catalog.
func (c *Client) Catalog() *Catalog {
	return c.catalog
}
