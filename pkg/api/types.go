package api

import "time"

// ConversationResponse is returned when a conversation is created.
type ConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Greeting       string `json:"greeting"`
}

// SendMessageRequest submits one user utterance for a turn.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// MessageRecord is one transcript entry as the service exposes it.
type MessageRecord struct {
	Role      string    `json:"role,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind,omitempty"`
	ID        string    `json:"id,omitempty"`
	CallID    string    `json:"call_id,omitempty"`
	ToolName  string    `json:"tool_name,omitempty"`
	Arguments string    `json:"arguments,omitempty"`
	Output    string    `json:"output,omitempty"`
}

// TranscriptResponse is the full ordered history of a conversation.
type TranscriptResponse struct {
	ConversationID string          `json:"conversation_id"`
	Messages       []MessageRecord `json:"messages"`
}

// ErrorResponse carries a user-visible failure description.
type ErrorResponse struct {
	Error string `json:"error"`
}
