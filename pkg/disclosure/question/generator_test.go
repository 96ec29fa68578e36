package question

import (
	"context"
	"testing"
	"time"

	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/llm/llmtest"
	"disclosure-engine-be/pkg/llm/resilient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(p *llmtest.Provider) *Generator {
	cfg := resilient.Config{MaxAttempts: 3, AttemptTimeout: time.Second, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return NewGenerator(resilient.NewCaller(p, cfg, logger.NewNopLogger()), logger.NewNopLogger())
}

func request() Request {
	return Request{
		Product:   state.Product{Name: "Farm Fresh Wheat", CompanyName: "Green Acres"},
		Section:   "Agriculture",
		Remaining: []string{"Seed source and variety", "Irrigation"},
		Transcript: []state.TranscriptEntry{
			{Key: state.Key{Section: "Product Identity & Claims", DataPoint: "Brand"}, Question: "Brand?", Answer: "Green Acres"},
		},
	}
}

func TestGenerateUsesModelQuestion(t *testing.T) {
	p := llmtest.Reply(`{"question":"Where do your wheat seeds come from?","helper_text":"Name the supplier.","anticipated_topics":["supplier"," ","heirloom"]}`)

	res, err := newGenerator(p).Generate(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, "Where do your wheat seeds come from?", res.Question)
	assert.Equal(t, "Name the supplier.", res.HelperText)
	assert.Equal(t, []string{"supplier", "heirloom"}, res.AnticipatedTopics)
	assert.False(t, res.Fallback)

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "Data point to ask about now: Seed source and variety")
	assert.Contains(t, calls[0].Prompt, "A: Green Acres")
	assert.True(t, calls[0].Options.JSONMode)
}

func TestGenerateFallsBackWhenModelAlwaysFails(t *testing.T) {
	p := llmtest.Failing()

	res, err := newGenerator(p).Generate(context.Background(), request())

	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "Please provide details on: Seed source and variety", res.Question)
	assert.Len(t, p.Calls(), 3)
}

func TestGenerateRejectsCompoundQuestions(t *testing.T) {
	p := llmtest.Reply(`{"question":"Where are seeds from? And how are they stored?"}`)

	res, err := newGenerator(p).Generate(context.Background(), request())

	require.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestGenerateRetriesMalformedThenSucceeds(t *testing.T) {
	p := llmtest.Sequence("I think you should ask about seeds", `{"question":"Which wheat variety do you grow?"}`)

	res, err := newGenerator(p).Generate(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, "Which wheat variety do you grow?", res.Question)
	assert.Len(t, p.Calls(), 2)
}

func TestGenerateReturnsErrorOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newGenerator(llmtest.Reply(`{"question":"x?"}`)).Generate(ctx, request())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateNeedsADataPoint(t *testing.T) {
	req := request()
	req.Remaining = nil

	_, err := newGenerator(llmtest.Reply("{}")).Generate(context.Background(), req)
	assert.Error(t, err)
}
