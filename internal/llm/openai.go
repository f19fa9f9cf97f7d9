package llm

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/databuddy-ai/databuddy/internal/config"
)

// Default base URLs for the OpenAI-compatible providers
const (
	DeepseekDefaultBaseURL = "https://api.deepseek.com/v1"
	GrokDefaultBaseURL     = "https://api.x.ai/v1"
	OllamaDefaultBaseURL   = "http://localhost:11434/v1"
)

// openAICompatProvider implements Provider for any service speaking the
// OpenAI chat-completions API. OpenAI itself, Deepseek, Grok and local
// Ollama all go through this one implementation with different names and
// base URLs.
type openAICompatProvider struct {
	name string
	cfg  config.ModelConfig
}

// NewOpenAIProvider creates a provider for the OpenAI API
func NewOpenAIProvider(cfg config.ModelConfig) Provider {
	return &openAICompatProvider{name: "openai", cfg: cfg}
}

// NewDeepseekProvider creates a provider for the Deepseek API
func NewDeepseekProvider(cfg config.ModelConfig) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DeepseekDefaultBaseURL
	}
	return &openAICompatProvider{name: "deepseek", cfg: cfg}
}

// NewGrokProvider creates a provider for the xAI Grok API
func NewGrokProvider(cfg config.ModelConfig) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GrokDefaultBaseURL
	}
	return &openAICompatProvider{name: "grok", cfg: cfg}
}

// NewOllamaProvider creates a provider for a local Ollama server. Ollama
// needs no API key; a placeholder satisfies the client.
func NewOllamaProvider(cfg config.ModelConfig) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OllamaDefaultBaseURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "ollama"
	}
	return &openAICompatProvider{name: "ollama", cfg: cfg}
}

// Name returns the provider name
func (p *openAICompatProvider) Name() string {
	return p.name
}

// GetConfig returns the model configuration
func (p *openAICompatProvider) GetConfig() config.ModelConfig {
	return p.cfg
}

// CreateChatModel creates an Eino ChatModel using the OpenAI component
func (p *openAICompatProvider) CreateChatModel(ctx context.Context) (model.ChatModel, error) {
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  p.cfg.APIKey,
		Model:   p.cfg.Model,
		BaseURL: p.cfg.BaseURL,
	})
}
