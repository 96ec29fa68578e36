package document

import (
	"context"
	"testing"
	"time"

	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/llmtest"
	"disclosure-engine-be/pkg/llm/resilient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

// textOnly hides the multimodal method of the wrapped fake.
type textOnly struct{ llm.LLMProvider }

func newAnalyzer(p llm.LLMProvider) *Analyzer {
	cfg := resilient.Config{MaxAttempts: 2, AttemptTimeout: time.Second, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return NewAnalyzer(resilient.NewCaller(p, cfg, logger.NewNopLogger()), 50, logger.NewNopLogger())
}

func request(data []byte, declared string) Request {
	return Request{
		Data:         data,
		Filename:     "evidence",
		DeclaredType: declared,
		Product:      state.Product{Name: "Farm Fresh Wheat"},
		Section:      "Agriculture",
		DataPoint:    "Seed source and variety",
		Question:     "Where do your seeds come from?",
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", MediaType(pngHeader, ""))
	assert.Equal(t, "application/pdf", MediaType([]byte("%PDF-1.4\n%âãÏÓ\n"), "application/octet-stream"))
	assert.Equal(t, "text/plain", MediaType([]byte("plain words"), ""))
	assert.Equal(t, "text/markdown", MediaType([]byte("# Title\nbody"), "text/markdown; charset=utf-8"))
	// a textual body claiming to be an image stays text
	assert.Equal(t, "text/plain", MediaType([]byte("not really a picture"), "image/png"))
}

func TestAnalyzeTextInlinesContent(t *testing.T) {
	p := llmtest.Reply(`{"relevant":true,"excerpt":"Seeds from Punjab Seed Co.","suggested_answer":"We buy certified HD-2967 seed from Punjab Seed Co."}`)

	s, err := newAnalyzer(p).Analyze(context.Background(), request([]byte("Invoice: 40kg HD-2967 seed, Punjab Seed Co."), "text/plain"))

	require.NoError(t, err)
	assert.True(t, s.Relevant)
	assert.Equal(t, "text/plain", s.MediaType)
	assert.Contains(t, s.SuggestedAnswer, "Punjab")

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "HD-2967")
	assert.Empty(t, calls[0].MimeType)
}

func TestAnalyzeTruncatesLongText(t *testing.T) {
	p := llmtest.Reply(`{"relevant":false}`)
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	_, err := newAnalyzer(p).Analyze(context.Background(), request(long, ""))

	require.NoError(t, err)
	assert.Contains(t, p.Calls()[0].Prompt, "[truncated]")
	assert.NotContains(t, p.Calls()[0].Prompt, string(long))
}

func TestAnalyzeImageUsesAttachment(t *testing.T) {
	p := llmtest.Reply(`{"relevant":true,"excerpt":"label","suggested_answer":"USDA organic seal visible"}`)

	s, err := newAnalyzer(p).Analyze(context.Background(), request(pngHeader, "image/png"))

	require.NoError(t, err)
	assert.Equal(t, "image/png", s.MediaType)
	assert.Equal(t, "image/png", p.Calls()[0].MimeType)
}

func TestAnalyzeImageWithoutMultimodalProvider(t *testing.T) {
	_, err := newAnalyzer(textOnly{llmtest.Reply("{}")}).Analyze(context.Background(), request(pngHeader, ""))
	assert.ErrorIs(t, err, disclosure.ErrUnsupportedMedia)
}

func TestAnalyzeRejectsBinary(t *testing.T) {
	zip := []byte{'P', 'K', 0x03, 0x04, 0x14, 0, 0, 0, 0, 0}
	_, err := newAnalyzer(llmtest.Reply("{}")).Analyze(context.Background(), request(zip, ""))
	assert.ErrorIs(t, err, disclosure.ErrUnsupportedMedia)
}

func TestAnalyzeModelFailure(t *testing.T) {
	_, err := newAnalyzer(llmtest.Failing()).Analyze(context.Background(), request([]byte("some text"), ""))
	assert.ErrorIs(t, err, resilient.ErrExhausted)
}

func TestAnalyzeEmptyUpload(t *testing.T) {
	_, err := newAnalyzer(llmtest.Reply("{}")).Analyze(context.Background(), request(nil, "text/plain"))
	assert.Error(t, err)
}
