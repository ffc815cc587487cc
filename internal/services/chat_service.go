package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"blankdigi/internal/events"
	"blankdigi/internal/gemini"
	"blankdigi/internal/models"
	"blankdigi/internal/repositories"
	"blankdigi/internal/seo"
)

// Advisor is the slice of the generation provider the chat needs.
type Advisor interface {
	Advice(ctx context.Context, req *gemini.AdviceRequest) (*models.AdviceReply, error)
}

// AskOptions tunes a single chat submission.
type AskOptions struct {
	Thinking  bool   `json:"thinking"`
	UseSearch bool   `json:"useSearch"`
	PageURL   string `json:"pageUrl"`
}

// ChatService runs the advice conversation: it keeps the append-only
// history, replays it to the model, and stores each reply with its
// citations. One reply is generated at a time.
type ChatService struct {
	messages  repositories.ChatMessageRepository
	advisor   Advisor
	inspector *seo.Inspector
	settings  AppSettingsService

	mu   sync.Mutex
	busy bool

	context context.Context
}

func NewChatService(messages repositories.ChatMessageRepository, advisor Advisor, inspector *seo.Inspector, settings AppSettingsService) *ChatService {
	return &ChatService{
		messages:  messages,
		advisor:   advisor,
		inspector: inspector,
		settings:  settings,
	}
}

func (s *ChatService) Startup(ctx context.Context) {
	s.context = ctx
}

// StartConversation mints a key for a fresh conversation.
func (s *ChatService) StartConversation() string {
	return uuid.NewString()
}

// History returns a conversation's messages in insertion order, with
// citations decoded for the UI.
func (s *ChatService) History(conversationID string) ([]models.ChatMessage, error) {
	msgs, err := s.messages.ListByConversation(s.ctx(), conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	for i := range msgs {
		msgs[i].Citations = parseCitationsJSON(msgs[i].CitationsJSON)
	}
	return msgs, nil
}

// Ask appends the prompt to the conversation, generates a reply, and
// appends that too. On failure the user's message stays in the history and
// the error is surfaced to the caller.
func (s *ChatService) Ask(conversationID, prompt string, opts AskOptions) (*models.ChatMessage, error) {
	conversationID = strings.TrimSpace(conversationID)
	prompt = strings.TrimSpace(prompt)
	if conversationID == "" {
		return nil, errors.New("conversation id is required")
	}
	if prompt == "" {
		return nil, errors.New("prompt is empty")
	}
	if !s.tryAcquire() {
		return nil, fmt.Errorf("ERR_CHAT_BUSY:a reply is already being generated")
	}
	defer s.release()

	ctx := s.ctx()

	persona := gemini.PersonaSEO
	if settings, err := s.settings.Get(); err == nil && settings.AdvicePersona != "" {
		persona = settings.AdvicePersona
	}

	var pageFacts string
	if strings.TrimSpace(opts.PageURL) != "" {
		facts, err := s.inspector.Inspect(ctx, opts.PageURL)
		if err != nil {
			// The chat still works without page facts.
			events.Emit(ctx, events.ChatReply, events.NewWarn("page inspection failed: "+err.Error()))
		} else {
			pageFacts = seo.Render(facts)
		}
	}

	history, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	userMsg := &models.ChatMessage{
		ConversationID: conversationID,
		Role:           models.ChatRoleUser,
		Content:        prompt,
	}
	if err := s.messages.Append(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	reply, err := s.advisor.Advice(ctx, &gemini.AdviceRequest{
		Prompt:    prompt,
		Persona:   persona,
		History:   historyTurns(history),
		Thinking:  opts.Thinking,
		UseSearch: opts.UseSearch,
		PageFacts: pageFacts,
	})
	if err != nil {
		events.Emit(ctx, events.ChatReply, events.NewError("advice generation failed: "+err.Error()))
		return nil, err
	}

	assistant := &models.ChatMessage{
		ConversationID: conversationID,
		Role:           models.ChatRoleAssistant,
		Content:        reply.Content,
		Thinking:       reply.Thinking,
		CitationsJSON:  marshalCitations(reply.Citations),
	}
	if err := s.messages.Append(ctx, assistant); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}
	assistant.Citations = reply.Citations

	events.Emit(ctx, events.ChatReply, events.NewSuccess("advice reply ready").WithPayload(assistant))
	return assistant, nil
}

func (s *ChatService) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *ChatService) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *ChatService) ctx() context.Context {
	if s.context != nil {
		return s.context
	}
	return context.Background()
}

func historyTurns(msgs []models.ChatMessage) []gemini.Turn {
	turns := make([]gemini.Turn, 0, len(msgs))
	for _, m := range msgs {
		role := strings.TrimSpace(strings.ToLower(m.Role))
		content := strings.TrimSpace(m.Content)
		if role != models.ChatRoleUser && role != models.ChatRoleAssistant {
			continue
		}
		if content == "" {
			continue
		}
		turns = append(turns, gemini.Turn{Role: role, Text: content})
	}
	return turns
}

func marshalCitations(citations []models.Citation) string {
	if len(citations) == 0 {
		return ""
	}
	data, err := json.Marshal(citations)
	if err != nil {
		return ""
	}
	return string(data)
}

func parseCitationsJSON(raw string) []models.Citation {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var citations []models.Citation
	if err := json.Unmarshal([]byte(raw), &citations); err != nil {
		return nil
	}
	clean := make([]models.Citation, 0, len(citations))
	for _, c := range citations {
		if strings.TrimSpace(c.URI) == "" {
			continue
		}
		clean = append(clean, c)
	}
	if len(clean) == 0 {
		return nil
	}
	return clean
}
