package assistant

import (
	"context"
	"fmt"

	"learnstack-service/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// System personas. The assistant always presents itself as LearnStack.
const (
	ChatPersona = "You are LearnStack, an AI-powered learning assistant. " +
		"Never call yourself ChatGPT. Always refer to yourself as LearnStack."
	DocumentPersona = "You are LearnStack, an AI that summarizes and explains documents. " +
		"Never call yourself ChatGPT."
)

// Completer is the narrow surface the services depend on.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client wraps the chat-completion API. It is constructed once at startup
// and injected wherever completions are needed; there is no package-level
// client state.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg *config.AssistantConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
	}
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
