package llm

import (
	"context"
	"fmt"
	"strings"
)

// Request is a single structured completion call.
type Request struct {
	SystemPrompt    string
	UserPrompt      string
	Temperature     float32
	MaxOutputTokens int32
	// ResponseSchema, when non-nil, asks the provider to constrain output
	// to a JSON object of this shape. Providers without schema support
	// fall back to a JSON-object directive.
	ResponseSchema any
}

// Client is a text-completion provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

// Config selects and configures a provider.
type Config struct {
	Provider      string // gemini (default) or openai
	Model         string // "" means provider default
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// New builds a Client for the configured provider.
func New(cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = "gemini"
	}
	switch provider {
	case "gemini":
		return newGeminiClient(cfg.GeminiAPIKey, cfg.Model)
	case "openai":
		return newOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
