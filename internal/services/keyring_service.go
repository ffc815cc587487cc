package services

import (
	"errors"
	"runtime"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "blankdigi"

const (
	keyringAuthToken = "auth-token"
	keyringGeminiKey = "gemini-api-key"
)

func GetOS() string {
	return runtime.GOOS
}

// KeyringService stores the suite's secrets in the OS keyring: the auth
// backend bearer token and the Gemini API key.
type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) StoreAuthToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(serviceName, keyringAuthToken, token)
}

// AuthToken returns the stored bearer token, or "" when none is stored.
func (s *KeyringService) AuthToken() (string, error) {
	return s.get(keyringAuthToken)
}

func (s *KeyringService) ClearAuthToken() error {
	return s.clear(keyringAuthToken)
}

func (s *KeyringService) StoreGeminiKey(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(serviceName, keyringGeminiKey, apiKey)
}

// GeminiKey returns the stored Gemini API key, or "" when none is stored.
func (s *KeyringService) GeminiKey() (string, error) {
	return s.get(keyringGeminiKey)
}

func (s *KeyringService) ClearGeminiKey() error {
	return s.clear(keyringGeminiKey)
}

func (s *KeyringService) get(name string) (string, error) {
	value, err := keyring.Get(serviceName, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *KeyringService) clear(name string) error {
	err := keyring.Delete(serviceName, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
