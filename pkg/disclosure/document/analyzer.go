// Package document surfaces answer suggestions from uploaded evidence files.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"disclosure-engine-be/internal/constant"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/resilient"

	"github.com/gabriel-vasile/mimetype"
)

const (
	defaultMaxTextChars = 12000
	maxExcerptChars     = 400
)

type Request struct {
	Data         []byte
	Filename     string
	DeclaredType string
	Product      state.Product
	Section      string
	DataPoint    string
	Question     string
}

// Suggestion is shown to the requester; it is never recorded as an answer.
type Suggestion struct {
	MediaType       string `json:"media_type"`
	Relevant        bool   `json:"relevant"`
	Excerpt         string `json:"excerpt,omitempty"`
	SuggestedAnswer string `json:"suggested_answer,omitempty"`
}

type modelSuggestion struct {
	Relevant        bool   `json:"relevant"`
	Excerpt         string `json:"excerpt"`
	SuggestedAnswer string `json:"suggested_answer"`
}

type Analyzer struct {
	caller       *resilient.Caller
	maxTextChars int
	logger       logger.ILogger
}

func NewAnalyzer(caller *resilient.Caller, maxTextChars int, log logger.ILogger) *Analyzer {
	if maxTextChars <= 0 {
		maxTextChars = defaultMaxTextChars
	}
	return &Analyzer{caller: caller, maxTextChars: maxTextChars, logger: log}
}

// MediaType sniffs the content. The declared type is only a hint: it refines a
// generic binary result, or a plain-text result when it is itself textual.
func MediaType(data []byte, declared string) string {
	detected := mimetype.Detect(data)
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))

	switch {
	case declared == "":
	case detected.Is("application/octet-stream"):
		return declared
	case detected.Is("text/plain") && isText(declared):
		return declared
	}
	return strings.Split(detected.String(), ";")[0]
}

func isText(mediaType string) bool {
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	for m := mimetype.Lookup(mediaType); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func isAttachable(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/") || mediaType == "application/pdf"
}

func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Suggestion, error) {
	if len(req.Data) == 0 {
		return nil, errors.New("document: empty upload")
	}

	// 1. Classify
	mediaType := MediaType(req.Data, req.DeclaredType)
	a.logger.Debug("DOCUMENT", "Upload classified", map[string]interface{}{
		"filename":   req.Filename,
		"media_type": mediaType,
		"size":       len(req.Data),
	})

	var invoke resilient.Invoke
	switch {
	case isText(mediaType):
		// 2a. Inline text
		prompt := fmt.Sprintf(constant.DocumentAnalysisPrompt,
			req.Product.Describe(), req.Section, req.DataPoint, req.Question, a.extractText(req.Data))
		invoke = func(ctx context.Context, p llm.LLMProvider) (string, error) {
			return p.Generate(ctx, prompt, llm.WithJSONResponse(), llm.WithTemperature(0.1))
		}

	case isAttachable(mediaType):
		// 2b. Attachment for multimodal backends
		mp, ok := a.caller.Provider().(llm.MultimodalProvider)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a multimodal model", disclosure.ErrUnsupportedMedia, mediaType)
		}
		prompt := fmt.Sprintf(constant.DocumentAttachmentPrompt,
			req.Product.Describe(), req.Section, req.DataPoint, req.Question)
		invoke = func(ctx context.Context, _ llm.LLMProvider) (string, error) {
			return mp.GenerateWithFile(ctx, prompt, req.Data, mediaType, llm.WithJSONResponse(), llm.WithTemperature(0.1))
		}

	default:
		return nil, fmt.Errorf("%w: %s", disclosure.ErrUnsupportedMedia, mediaType)
	}

	// 3. Ask the model
	s, err := resilient.Do(ctx, a.caller, "document", invoke, parse)
	if err != nil {
		return nil, err
	}
	s.MediaType = mediaType
	return &s, nil
}

func (a *Analyzer) extractText(data []byte) string {
	text := strings.ToValidUTF8(string(data), "")
	if utf8.RuneCountInString(text) > a.maxTextChars {
		text = string([]rune(text)[:a.maxTextChars]) + "\n[truncated]"
	}
	return text
}

func parse(raw string) (Suggestion, error) {
	var ms modelSuggestion
	if err := resilient.DecodeJSON(raw, &ms); err != nil {
		return Suggestion{}, err
	}
	if ms.Relevant && strings.TrimSpace(ms.SuggestedAnswer) == "" {
		return Suggestion{}, errors.New("relevant suggestion without an answer")
	}

	excerpt := strings.TrimSpace(ms.Excerpt)
	if r := []rune(excerpt); len(r) > maxExcerptChars {
		excerpt = string(r[:maxExcerptChars])
	}
	return Suggestion{
		Relevant:        ms.Relevant,
		Excerpt:         excerpt,
		SuggestedAnswer: strings.TrimSpace(ms.SuggestedAnswer),
	}, nil
}
