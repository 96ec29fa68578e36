package factory

import (
	"context"
	"fmt"

	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/gemini"
	"disclosure-engine-be/pkg/llm/huggingface"
	"disclosure-engine-be/pkg/llm/ollama"
)

// Config selects and parameterises a backend.
type Config struct {
	Provider string // "ollama", "huggingface" or "gemini"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "gemini":
		return gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
