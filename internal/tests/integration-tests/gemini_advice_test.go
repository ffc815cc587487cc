package integration_tests

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"blankdigi/internal/gemini"
	"blankdigi/internal/utils"
)

// These tests talk to the real Gemini API. They are skipped unless
// GEMINI_API_KEY is available, either in the environment or in a .env at the
// repo root.
func newLiveClient(t *testing.T) *gemini.Client {
	t.Helper()
	_ = utils.LoadEnv()
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	client, err := gemini.New(context.Background(), apiKey, gemini.Options{})
	if err != nil {
		t.Fatalf("failed to create Gemini client: %v", err)
	}
	return client
}

func TestAdviceRoundTrip(t *testing.T) {
	client := newLiveClient(t)

	reply, err := client.Advice(context.Background(), &gemini.AdviceRequest{
		Prompt:  "Answer with the single word: pong",
		Persona: gemini.PersonaSEO,
	})
	assert.NoError(t, err)
	assert.NotNil(t, reply)
	assert.Contains(t, reply.Content, "pong")
}

func TestAdviceWithSearchReturnsCitations(t *testing.T) {
	client := newLiveClient(t)

	reply, err := client.Advice(context.Background(), &gemini.AdviceRequest{
		Prompt:    "What is the current recommended way to submit a sitemap to Google Search Console? Cite your sources.",
		Persona:   gemini.PersonaSEO,
		UseSearch: true,
	})
	assert.NoError(t, err)
	assert.NotNil(t, reply)
	assert.NotEmpty(t, reply.Content)
}
