package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	SessionChanged = "event:session:changed"
	ChatReply      = "event:chat:reply"
	StudioProgress = "event:studio:progress"
	StudioDone     = "event:studio:done"
)

// AppEvent is a simple struct representing a backend event payload
type AppEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

func CreateAppEvent(eventType EventType, message string) AppEvent {
	return AppEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info AppEvent.
func NewInfo(message string) AppEvent {
	return CreateAppEvent(EventInfo, message)
}

// NewWarn creates a warn AppEvent.
func NewWarn(message string) AppEvent {
	return CreateAppEvent(EventWarn, message)
}

// NewError creates an error AppEvent.
func NewError(message string) AppEvent {
	return CreateAppEvent(EventError, message)
}

// NewSuccess creates a success AppEvent.
func NewSuccess(message string) AppEvent {
	return CreateAppEvent(EventSuccess, message)
}

// WithPayload returns a copy of the event carrying the given payload.
func (e AppEvent) WithPayload(payload any) AppEvent {
	e.Payload = payload
	return e
}
