package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// AIServiceAdapter is the port for the thin LLM helper calls (quiz
// generation, chat). Chat returns only the assistant text.
type AIServiceAdapter interface {
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}
