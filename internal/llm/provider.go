// Package llm wraps the completion endpoints used for draft assistance
// and fetch summarization. Providers are consumed as black boxes: a
// prompt goes in, text comes out.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// CompletionRequest carries one completion call.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Provider is a completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string `yaml:"provider,omitempty"` // "openai" (any compatible endpoint) or "anthropic"
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

// New creates the configured provider. Anything that is not explicitly
// anthropic is treated as an OpenAI-compatible endpoint, which covers
// local servers (LM Studio, Ollama, llama.cpp) and the hosted APIs.
func New(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic", "claude":
		return NewAnthropicProvider(cfg)
	case "", "openai", "local":
		return NewOpenAICompatProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
