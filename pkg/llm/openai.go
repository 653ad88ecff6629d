package llm

import (
	"context"
	"time"

	"TourShield/pkg/errors"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAIHandler implements the LLM interface against any OpenAI-compatible API
type OpenAIHandler struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewOpenAIHandler creates a new completion handler. baseURL may point at any
// OpenAI-compatible endpoint (DashScope, LM Studio, Ollama's compat mode).
func NewOpenAIHandler(apiKey, baseURL, model string, timeout time.Duration, logger *logrus.Logger) *OpenAIHandler {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIHandler{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Complete sends [system, ...history] and returns the assistant reply
func (h *OpenAIHandler) Complete(ctx context.Context, systemPrompt string, history []Message) (string, Usage, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       h.model,
		Messages:    msgs,
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		h.logger.WithError(err).Error("completion request failed")
		return "", Usage{}, errors.Wrap(err, "completion request failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", Usage{}, errors.New("completion returned empty content")
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return resp.Choices[0].Message.Content, usage, nil
}
