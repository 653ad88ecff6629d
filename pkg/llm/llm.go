package llm

import "context"

// Role 对话角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 一条对话消息
type Message struct {
	Role    string
	Content string
}

// Usage token 用量统计
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// LLM represents a generic interface for interacting with completion providers
type LLM interface {
	// Complete sends a system prompt plus conversation history and returns the
	// assistant reply. Any transport failure or empty completion is an error.
	Complete(ctx context.Context, systemPrompt string, history []Message) (string, Usage, error)
}
