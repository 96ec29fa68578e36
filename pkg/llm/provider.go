package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	System      string
	// JSONMode asks the backend to constrain output to a JSON document.
	JSONMode bool
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

func WithJSONResponse() Option {
	return func(o *Options) {
		o.JSONMode = true
	}
}

// Apply folds opts over the given defaults.
func Apply(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// MultimodalProvider is implemented by backends that accept a binary attachment
// (image or PDF) alongside the prompt.
type MultimodalProvider interface {
	LLMProvider
	GenerateWithFile(ctx context.Context, prompt string, data []byte, mimeType string, options ...Option) (string, error)
}
