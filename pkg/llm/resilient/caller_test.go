package resilient

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{MaxAttempts: 3, AttemptTimeout: time.Second, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func TestDoRetriesTransientFailures(t *testing.T) {
	p := llmtest.Sequence("", "", "42")
	c := NewCaller(p, fastConfig(), logger.NewNopLogger())

	v, err := Generate(context.Background(), c, "test", "prompt", parseInt)

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Len(t, p.Calls(), 3)
}

func TestDoTreatsMalformedOutputAsFailure(t *testing.T) {
	p := llmtest.Sequence("not a number", "7")
	c := NewCaller(p, fastConfig(), logger.NewNopLogger())

	v, err := Generate(context.Background(), c, "test", "prompt", parseInt)

	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Len(t, p.Calls(), 2)
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	p := llmtest.Reply("garbage")
	c := NewCaller(p, fastConfig(), logger.NewNopLogger())

	_, err := Generate(context.Background(), c, "test", "prompt", parseInt)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Len(t, p.Calls(), 3)
}

func TestDoStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &llmtest.Provider{Respond: func(ctx context.Context, _ llmtest.Call) (string, error) {
		cancel()
		return "", ctx.Err()
	}}
	c := NewCaller(p, fastConfig(), logger.NewNopLogger())

	_, err := Generate(ctx, c, "test", "prompt", parseInt)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrExhausted))
	assert.Len(t, p.Calls(), 1)
}

func TestDoAppliesAttemptTimeout(t *testing.T) {
	p := &llmtest.Provider{Respond: func(ctx context.Context, _ llmtest.Call) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	cfg := fastConfig()
	cfg.AttemptTimeout = 5 * time.Millisecond
	c := NewCaller(p, cfg, logger.NewNopLogger())

	_, err := Generate(context.Background(), c, "test", "prompt", parseInt)

	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, p.Calls(), 3)
}

func TestGeneratePassesOptions(t *testing.T) {
	p := llmtest.Reply("1")
	c := NewCaller(p, fastConfig(), logger.NewNopLogger())

	_, err := Generate(context.Background(), c, "test", "prompt", parseInt, llm.WithJSONResponse())

	require.NoError(t, err)
	assert.True(t, p.Calls()[0].Options.JSONMode)
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Question string `json:"question"`
	}

	require.NoError(t, DecodeJSON("```json\n{\"question\":\"What?\"}\n```", &out))
	assert.Equal(t, "What?", out.Question)

	require.NoError(t, DecodeJSON("Sure! {\"question\":\"Why?\"} Hope that helps", &out))
	assert.Equal(t, "Why?", out.Question)

	assert.Error(t, DecodeJSON("no json here", &out))
}
