// Package report drafts the narrative summary and formal findings for a
// completed questionnaire.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"disclosure-engine-be/internal/constant"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/resilient"

	"golang.org/x/sync/errgroup"
)

type Input struct {
	SessionID  string
	Product    state.Product
	Sector     string
	Transcript []state.TranscriptEntry
}

type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Pair is immutable once returned.
type Pair struct {
	Summary     Document  `json:"summary"`
	Findings    Document  `json:"findings"`
	GeneratedAt time.Time `json:"generated_at"`
}

type Pipeline struct {
	caller *resilient.Caller
	logger logger.ILogger
	now    func() time.Time
}

func NewPipeline(caller *resilient.Caller, log logger.ILogger) *Pipeline {
	return &Pipeline{caller: caller, logger: log, now: time.Now}
}

// Synthesize runs both drafts concurrently. Either one failing fails the pair
// with ErrSynthesisFailed.
func (p *Pipeline) Synthesize(ctx context.Context, in Input) (*Pair, error) {
	if len(in.Transcript) == 0 {
		return nil, fmt.Errorf("%w: empty transcript", disclosure.ErrSynthesisFailed)
	}

	productBlock := in.Product.Describe()
	if in.Sector != "" {
		productBlock += "\n- Sector: " + in.Sector
	}
	transcript := state.FormatTranscript(in.Transcript, 0)

	var pair Pair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := p.draft(gctx, "report.summary", fmt.Sprintf(constant.ReportSummaryPrompt, productBlock, transcript))
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		pair.Summary = doc
		return nil
	})
	g.Go(func() error {
		doc, err := p.draft(gctx, "report.findings", fmt.Sprintf(constant.ReportFindingsPrompt, productBlock, transcript))
		if err != nil {
			return fmt.Errorf("findings: %w", err)
		}
		pair.Findings = doc
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Error("REPORT", "Report synthesis failed", map[string]interface{}{
			"session_id": in.SessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", disclosure.ErrSynthesisFailed, err)
	}

	pair.GeneratedAt = p.now()
	p.logger.Info("REPORT", "Report pair drafted", map[string]interface{}{
		"session_id":     in.SessionID,
		"summary_chars":  len(pair.Summary.Content),
		"findings_chars": len(pair.Findings.Content),
	})
	return &pair, nil
}

func (p *Pipeline) draft(ctx context.Context, op, prompt string) (Document, error) {
	return resilient.Generate(ctx, p.caller, op, prompt, parseDocument,
		llm.WithSystem(constant.ReportSystemPrompt),
		llm.WithJSONResponse(),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(4096),
	)
}

func parseDocument(raw string) (Document, error) {
	var doc Document
	if err := resilient.DecodeJSON(raw, &doc); err != nil {
		return Document{}, err
	}
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Content = strings.TrimSpace(doc.Content)
	if doc.Content == "" {
		return Document{}, errors.New("empty document content")
	}
	return doc, nil
}
