package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"blankdigi/internal/utils"
)

// Config carries the desktop app's environment-driven settings.
type Config struct {
	APIBaseURL         string `env:"SUITE_API_URL" envDefault:"http://localhost:8000"`
	GeminiAPIKey       string `env:"GEMINI_API_KEY"`
	MediaDir           string `env:"SUITE_MEDIA_DIR"`
	VideoPollSeconds   int    `env:"SUITE_VIDEO_POLL_SECONDS" envDefault:"10"`
	HTTPTimeoutSeconds int    `env:"SUITE_HTTP_TIMEOUT_SECONDS" envDefault:"30"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// .env is a development convenience; absence is fine.
	_ = utils.LoadEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.MediaDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.MediaDir = filepath.Join(home, "BlankDigi", "media")
	}
	if cfg.VideoPollSeconds <= 0 {
		cfg.VideoPollSeconds = 10
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		cfg.HTTPTimeoutSeconds = 30
	}
	return cfg, nil
}

func (c *Config) VideoPollInterval() time.Duration {
	return time.Duration(c.VideoPollSeconds) * time.Second
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
