package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"blankdigi/internal/gemini"
	"blankdigi/internal/models"
)

// ProviderService owns the Gemini client. The client is built lazily on
// first use so the app can start before a key is configured; the key in the
// keyring wins over the one from the environment.
type ProviderService struct {
	keyring      *KeyringService
	envKey       string
	pollInterval time.Duration

	mu     sync.Mutex
	client *gemini.Client

	context context.Context
}

func NewProviderService(keyring *KeyringService, envKey string, pollInterval time.Duration) *ProviderService {
	return &ProviderService{keyring: keyring, envKey: envKey, pollInterval: pollInterval}
}

func (p *ProviderService) Startup(ctx context.Context) {
	p.context = ctx
}

func (p *ProviderService) apiKey() (string, error) {
	key, err := p.keyring.GeminiKey()
	if err != nil {
		return "", fmt.Errorf("read Gemini key from keyring: %w", err)
	}
	if key != "" {
		return key, nil
	}
	if p.envKey != "" {
		return p.envKey, nil
	}
	return "", fmt.Errorf("ERR_GEMINI_KEY_MISSING:no Gemini API key configured")
}

// Client returns the shared Gemini client, building it on first use.
func (p *ProviderService) Client() (*gemini.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	key, err := p.apiKey()
	if err != nil {
		return nil, err
	}
	client, err := gemini.New(p.ctx(), key, gemini.Options{PollInterval: p.pollInterval})
	if err != nil {
		return nil, err
	}
	p.client = client
	return p.client, nil
}

// SetAPIKey stores a new Gemini key and drops the cached client so the next
// call picks the key up.
func (p *ProviderService) SetAPIKey(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("API key is empty")
	}
	if err := p.keyring.StoreGeminiKey(apiKey); err != nil {
		return err
	}
	p.mu.Lock()
	p.client = nil
	p.mu.Unlock()
	return nil
}

func (p *ProviderService) HasAPIKey() bool {
	key, err := p.apiKey()
	return err == nil && key != ""
}

// AspectRatios lists the aspect ratios offered by the studio screens.
func (p *ProviderService) AspectRatios() ([]string, error) {
	catalog, err := gemini.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return catalog.AspectRatios, nil
}

func (p *ProviderService) Advice(ctx context.Context, req *gemini.AdviceRequest) (*models.AdviceReply, error) {
	client, err := p.Client()
	if err != nil {
		return nil, err
	}
	return client.Advice(ctx, req)
}

func (p *ProviderService) GenerateImage(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error) {
	client, err := p.Client()
	if err != nil {
		return nil, err
	}
	return client.GenerateImage(ctx, prompt, aspectRatio)
}

func (p *ProviderService) EditImage(ctx context.Context, prompt string, image []byte, mimeType string) (*gemini.MediaPayload, error) {
	client, err := p.Client()
	if err != nil {
		return nil, err
	}
	return client.EditImage(ctx, prompt, image, mimeType)
}

func (p *ProviderService) GenerateVideo(ctx context.Context, prompt, aspectRatio string) (*gemini.MediaPayload, error) {
	client, err := p.Client()
	if err != nil {
		return nil, err
	}
	return client.GenerateVideo(ctx, prompt, aspectRatio)
}

func (p *ProviderService) ctx() context.Context {
	if p.context != nil {
		return p.context
	}
	return context.Background()
}
