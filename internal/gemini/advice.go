package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"blankdigi/internal/models"
)

const (
	PersonaSEO    = "seo"
	PersonaDevOps = "devops"
)

// Turn is one prior exchange replayed to the model for context.
type Turn struct {
	Role string
	Text string
}

// AdviceRequest describes a single advice prompt.
type AdviceRequest struct {
	Prompt    string
	Persona   string // PersonaSEO | PersonaDevOps
	History   []Turn
	Thinking  bool
	UseSearch bool
	PageFacts string // optional rendered facts block, prepended to the prompt
}

// Advice sends the conversation to the advice model and returns its reply.
// With UseSearch the reply carries citations for the web sources the model
// grounded itself on.
func (c *Client) Advice(ctx context.Context, req *AdviceRequest) (*models.AdviceReply, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("advice: empty prompt")
	}
	system, err := personaPrompt(req.Persona)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := genai.RoleUser
		if turn.Role == models.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	prompt := req.Prompt
	if strings.TrimSpace(req.PageFacts) != "" {
		prompt = "Facts about the page under discussion:\n" + req.PageFacts + "\n\n" + prompt
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.7)),
	}
	// A zero budget disables thinking entirely rather than leaving it to
	// the model's default.
	budget := int32(0)
	if req.Thinking {
		budget = c.catalog.Advice.ThinkingBudget
	}
	cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(budget)}
	if req.UseSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	res, err := c.genai.Models.GenerateContent(ctx, c.catalog.Advice.APIName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}
	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("generate advice: model returned no text")
	}
	return &models.AdviceReply{
		Content:   text,
		Thinking:  req.Thinking,
		Citations: collectCitations(res),
	}, nil
}

// collectCitations flattens the first candidate's grounding chunks into a
// deduplicated citation list.
func collectCitations(res *genai.GenerateContentResponse) []models.Citation {
	if res == nil || len(res.Candidates) == 0 {
		return nil
	}
	meta := res.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var citations []models.Citation
	seen := make(map[string]bool)
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		citations = append(citations, models.Citation{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return citations
}

func personaPrompt(persona string) (string, error) {
	name := "seo_coach.txt"
	switch persona {
	case "", PersonaSEO:
	case PersonaDevOps:
		name = "devops_engineer.txt"
	default:
		return "", fmt.Errorf("unknown advice persona %q", persona)
	}
	data, err := embeddedPrompts.ReadFile("prompts/" + name)
	if err != nil {
		return "", fmt.Errorf("load persona prompt: %w", err)
	}
	return string(data), nil
}
