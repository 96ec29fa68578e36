// Package resilient wraps model calls with a bounded retry loop. A response that
// fails to parse is retried exactly like a transport error.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/llm"

	"github.com/cenkalti/backoff/v5"
)

var (
	ErrMalformed = errors.New("malformed model output")
	ErrExhausted = errors.New("model call attempts exhausted")
)

type Config struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		AttemptTimeout: 30 * time.Second,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     4 * time.Second,
	}
}

type Caller struct {
	provider llm.LLMProvider
	cfg      Config
	logger   logger.ILogger
}

func NewCaller(provider llm.LLMProvider, cfg Config, log logger.ILogger) *Caller {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = def.AttemptTimeout
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	return &Caller{provider: provider, cfg: cfg, logger: log}
}

func (c *Caller) Provider() llm.LLMProvider {
	return c.provider
}

// Invoke performs one raw model call under the per-attempt deadline.
type Invoke func(ctx context.Context, p llm.LLMProvider) (string, error)

// Do runs invoke then parse up to MaxAttempts times with exponential backoff.
// Cancellation of ctx stops immediately and returns the context error; otherwise
// the final error wraps ErrExhausted and the last attempt's error.
func Do[T any](ctx context.Context, c *Caller, op string, invoke Invoke, parse func(raw string) (T, error)) (T, error) {
	var zero T
	attempt := 0

	operation := func() (T, error) {
		attempt++
		if err := ctx.Err(); err != nil {
			return zero, backoff.Permanent(err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()

		raw, err := invoke(attemptCtx, c.provider)
		if err != nil {
			if ctx.Err() != nil {
				return zero, backoff.Permanent(ctx.Err())
			}
			c.logger.Warn("LLM", "Model call failed", map[string]interface{}{
				"op": op, "attempt": attempt, "error": err.Error(),
			})
			return zero, err
		}

		v, err := parse(raw)
		if err != nil {
			c.logger.Warn("LLM", "Model output rejected", map[string]interface{}{
				"op": op, "attempt": attempt, "error": err.Error(),
			})
			return zero, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff
	b.MaxInterval = c.cfg.MaxBackoff

	v, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.MaxAttempts)),
	)
	if err == nil {
		return v, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}
	return zero, fmt.Errorf("%s: %w: %w", op, ErrExhausted, err)
}

// Generate is Do for a single prompt.
func Generate[T any](ctx context.Context, c *Caller, op, prompt string, parse func(raw string) (T, error), opts ...llm.Option) (T, error) {
	return Do(ctx, c, op, func(ctx context.Context, p llm.LLMProvider) (string, error) {
		return p.Generate(ctx, prompt, opts...)
	}, parse)
}
