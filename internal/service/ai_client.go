package service

import (
	"context"
	"fmt"

	"propagent/internal/config"
	"propagent/internal/model"
)

// AIClient is the boundary to the natural-language reasoning engine. The core
// never interprets free text itself: it hands the transcript and the tool
// definitions to the engine and receives back prose, tool calls, or both.
type AIClient interface {
	Chat(ctx context.Context, messages []model.Message, tools []ToolDefinition) (*ChatResult, error)
}

// ChatResult is one reasoning step.
type ChatResult struct {
	Content   string
	ToolCalls []model.ToolCall
}

// NewAIClient creates the provider selected by configuration.
func NewAIClient(cfg *config.AgentConfig) (AIClient, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllamaClient(cfg), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires AGENT_API_KEY")
		}
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// Ensure both providers implement AIClient.
var (
	_ AIClient = (*OllamaClient)(nil)
	_ AIClient = (*OpenAIClient)(nil)
)
