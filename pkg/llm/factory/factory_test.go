package factory

import (
	"context"
	"testing"

	"disclosure-engine-be/pkg/llm/huggingface"
	"disclosure-engine-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(context.Background(), Config{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider(context.Background(), Config{Provider: "huggingface", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)
}

func TestNewLLMProviderErrors(t *testing.T) {
	_, err := NewLLMProvider(context.Background(), Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = NewLLMProvider(context.Background(), Config{Provider: "gemini"})
	assert.Error(t, err, "gemini requires an api key")
}
