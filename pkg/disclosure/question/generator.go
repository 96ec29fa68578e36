// Package question turns the next data point into one model-written question.
package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"disclosure-engine-be/internal/constant"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/resilient"
)

const (
	transcriptWindow = 12
	maxQuestionLen   = 400
	maxTopics        = 6
)

type Request struct {
	Product    state.Product
	Section    string
	Remaining  []string // remaining data points in order; the first one is asked
	Transcript []state.TranscriptEntry
}

type Result struct {
	Question          string
	HelperText        string
	AnticipatedTopics []string
	Fallback          bool
}

type modelQuestion struct {
	Question          string   `json:"question"`
	HelperText        string   `json:"helper_text"`
	AnticipatedTopics []string `json:"anticipated_topics"`
}

type Generator struct {
	caller *resilient.Caller
	logger logger.ILogger
}

func NewGenerator(caller *resilient.Caller, log logger.ILogger) *Generator {
	return &Generator{caller: caller, logger: log}
}

// Generate asks the model for a question about Remaining[0]. When every attempt
// fails it returns the templated fallback; it only errors on cancellation or an
// empty Remaining list.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if len(req.Remaining) == 0 {
		return Result{}, errors.New("question: no data point to ask about")
	}
	target := req.Remaining[0]

	prompt := fmt.Sprintf(constant.QuestionGeneratorPrompt,
		req.Product.Describe(),
		req.Section,
		target,
		strings.Join(req.Remaining[1:], "; "),
		state.FormatTranscript(req.Transcript, transcriptWindow),
	)

	res, err := resilient.Generate(ctx, g.caller, "question", prompt, parse,
		llm.WithSystem(constant.QuestionGeneratorSystemPrompt),
		llm.WithJSONResponse(),
		llm.WithTemperature(0.4),
		llm.WithMaxTokens(400),
	)
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	g.logger.Warn("QUESTION", "Falling back to templated question", map[string]interface{}{
		"section":    req.Section,
		"data_point": target,
		"error":      err.Error(),
	})
	return Fallback(target), nil
}

// Fallback is the deterministic question used when the model cannot produce one.
func Fallback(dataPoint string) Result {
	return Result{
		Question:   "Please provide details on: " + dataPoint,
		HelperText: "Share what you know about " + strings.ToLower(dataPoint) + ". You can reply \"ask me later\" to come back to it.",
		Fallback:   true,
	}
}

func parse(raw string) (Result, error) {
	var mq modelQuestion
	if err := resilient.DecodeJSON(raw, &mq); err != nil {
		return Result{}, err
	}

	q := strings.TrimSpace(mq.Question)
	switch {
	case q == "":
		return Result{}, errors.New("empty question")
	case len(q) > maxQuestionLen:
		return Result{}, errors.New("question too long")
	case strings.Count(q, "?") > 1:
		return Result{}, errors.New("compound question")
	}

	topics := make([]string, 0, len(mq.AnticipatedTopics))
	for _, t := range mq.AnticipatedTopics {
		if t = strings.TrimSpace(t); t != "" && len(topics) < maxTopics {
			topics = append(topics, t)
		}
	}

	return Result{
		Question:          q,
		HelperText:        strings.TrimSpace(mq.HelperText),
		AnticipatedTopics: topics,
	}, nil
}
