package llm

import (
	"context"
	"fmt"

	"github.com/talentsift/screening/internal/config"
)

// Provider abstracts a generative model backend (Gemini, OpenAI, Anthropic).
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest is the input for a completion. Temperature is always sent,
// including zero, so deterministic prompts stay deterministic. JSONOnly asks
// the backend to constrain output to a JSON document where supported.
type ChatRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	JSONOnly    bool
}

// ChatResponse is the completion output.
type ChatResponse struct {
	Provider string
	Model    string
	Content  string
}

// New builds the provider selected by configuration.
func New(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg.GeminiKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.AnthropicKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
