package gemini

import (
	"context"
	"fmt"

	"disclosure-engine-be/pkg/llm"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// GeminiProvider talks to the Gemini API through the official genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

var _ llm.MultimodalProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Temperature: 0.7}, options...)

	system := opts.System
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case "system":
			// genai carries system text on the config, not in the turn list
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case "assistant", "model":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	opts.System = system

	return p.generate(ctx, contents, opts)
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

// GenerateWithFile sends the attachment inline with the prompt. Gemini accepts
// images and PDFs as inline data.
func (p *GeminiProvider) GenerateWithFile(ctx context.Context, prompt string, data []byte, mimeType string, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Temperature: 0.2}, options...)

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	return p.generate(ctx, contents, opts)
}

func (p *GeminiProvider) generate(ctx context.Context, contents []*genai.Content, opts llm.Options) (string, error) {
	model := p.model
	if opts.Model != "" {
		model = opts.Model
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
	}
	if opts.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
