package models

// AdviceReply is the assistant's answer to a single advice prompt.
type AdviceReply struct {
	Content   string     `json:"content"`
	Thinking  bool       `json:"thinking"`
	Citations []Citation `json:"citations,omitempty"`
}
