package models

import "time"

// Chat message roles, matching the OpenAI-style wire format OpenRouter uses.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of a tutor conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TutorReply is the assistant's answer plus any gamification side effects
// the exchange produced.
type TutorReply struct {
	Message      ChatMessage `json:"message"`
	Model        string      `json:"model"`
	PointsGained int         `json:"points_gained"`
	CreatedAt    time.Time   `json:"created_at"`
}
