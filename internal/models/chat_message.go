package models

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of an advice conversation. Rows are append-only;
// the UI renders them in insertion order.
type ChatMessage struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID string `gorm:"size:64;not null;index:idx_chat_conversation" json:"conversationId"`
	Role           string `gorm:"size:16;not null" json:"role"` // "user" | "assistant"
	Content        string `gorm:"type:text;not null" json:"content"`
	Thinking       bool   `gorm:"not null;default:false" json:"thinking"`
	CitationsJSON  string `gorm:"type:text" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`

	// Citations is decoded from CitationsJSON before the message is handed
	// to the UI. It is never persisted directly.
	Citations []Citation `gorm:"-" json:"citations,omitempty"`
}

// Citation points at a web source that grounded an assistant reply.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}
