// Package llmtest provides a scriptable llm.MultimodalProvider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"disclosure-engine-be/pkg/llm"
)

var ErrScripted = errors.New("scripted failure")

type Call struct {
	Prompt   string
	Options  llm.Options
	MimeType string
}

// Provider answers every call through Respond. Safe for concurrent use.
type Provider struct {
	Respond func(ctx context.Context, call Call) (string, error)

	mu    sync.Mutex
	calls []Call
}

var _ llm.MultimodalProvider = (*Provider)(nil)

// Reply always returns the same text.
func Reply(text string) *Provider {
	return &Provider{Respond: func(context.Context, Call) (string, error) { return text, nil }}
}

// Failing fails every call.
func Failing() *Provider {
	return &Provider{Respond: func(context.Context, Call) (string, error) { return "", ErrScripted }}
}

// Sequence returns replies in order and repeats the last one when exhausted.
// An empty string entry means "fail this call".
func Sequence(replies ...string) *Provider {
	i := 0
	var mu sync.Mutex
	return &Provider{Respond: func(context.Context, Call) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		r := replies[len(replies)-1]
		if i < len(replies) {
			r = replies[i]
		}
		i++
		if r == "" {
			return "", ErrScripted
		}
		return r, nil
	}}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return p.do(ctx, Call{Prompt: prompt, Options: llm.Apply(llm.Options{}, opts...)})
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.do(ctx, Call{Prompt: prompt, Options: llm.Apply(llm.Options{}, opts...)})
}

func (p *Provider) GenerateWithFile(ctx context.Context, prompt string, _ []byte, mimeType string, opts ...llm.Option) (string, error) {
	return p.do(ctx, Call{Prompt: prompt, Options: llm.Apply(llm.Options{}, opts...), MimeType: mimeType})
}

func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

func (p *Provider) do(ctx context.Context, call Call) (string, error) {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Respond(ctx, call)
}
