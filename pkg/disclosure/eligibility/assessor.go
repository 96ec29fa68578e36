// Package eligibility screens a product before a questionnaire may start. The
// loop allows one clarification round at most.
package eligibility

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"disclosure-engine-be/internal/constant"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/resilient"
)

type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
	DecisionPending  Decision = "pending"
)

const MaxClarifyingQuestions = 3

type Request struct {
	Category       string   `json:"category"`
	Subcategories  []string `json:"subcategories"`
	ProductName    string   `json:"product_name"`
	CompanyName    string   `json:"company_name"`
	Location       string   `json:"location"`
	Certifications []string `json:"certifications"`
	Description    string   `json:"description"`
}

type Clarification struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Verdict struct {
	Decision            Decision `json:"decision"`
	Reason              string   `json:"reason"`
	Certifications      []string `json:"certifications,omitempty"`
	ClarifyingQuestions []string `json:"clarifying_questions,omitempty"`
}

type modelVerdict struct {
	Decision            string   `json:"decision"`
	Reason              string   `json:"reason"`
	Certifications      []string `json:"certifications"`
	ClarifyingQuestions []string `json:"clarifying_questions"`
}

type Assessor struct {
	caller *resilient.Caller
	logger logger.ILogger
}

func NewAssessor(caller *resilient.Caller, log logger.ILogger) *Assessor {
	return &Assessor{caller: caller, logger: log}
}

// Assess is the first classification. A pending verdict carries 1 to 3 questions.
func (a *Assessor) Assess(ctx context.Context, req Request) (*Verdict, error) {
	prompt := fmt.Sprintf(constant.EligibilityFirstPassPrompt, describe(req))
	v, err := a.call(ctx, "eligibility.assess", prompt, parseFirst)
	if err != nil {
		return nil, err
	}
	a.logger.Info("ELIGIBILITY", "First pass verdict", map[string]interface{}{
		"product":   req.ProductName,
		"decision":  string(v.Decision),
		"questions": len(v.ClarifyingQuestions),
	})
	return v, nil
}

// Finalize is the second and last classification. It never returns pending.
func (a *Assessor) Finalize(ctx context.Context, req Request, answers []Clarification) (*Verdict, error) {
	if len(answers) > MaxClarifyingQuestions {
		answers = answers[:MaxClarifyingQuestions]
	}
	prompt := fmt.Sprintf(constant.EligibilityFinalPassPrompt, describe(req), formatAnswers(answers))
	v, err := a.call(ctx, "eligibility.finalize", prompt, parseFinal)
	if err != nil {
		return nil, err
	}
	a.logger.Info("ELIGIBILITY", "Final verdict", map[string]interface{}{
		"product":  req.ProductName,
		"decision": string(v.Decision),
	})
	return v, nil
}

func (a *Assessor) call(ctx context.Context, op, prompt string, parse func(string) (*Verdict, error)) (*Verdict, error) {
	v, err := resilient.Generate(ctx, a.caller, op, prompt, parse,
		llm.WithSystem(constant.EligibilitySystemPrompt),
		llm.WithJSONResponse(),
		llm.WithTemperature(0.1),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", disclosure.ErrSynthesisFailed, err)
	}
	return v, nil
}

func decode(raw string) (*Verdict, error) {
	var mv modelVerdict
	if err := resilient.DecodeJSON(raw, &mv); err != nil {
		return nil, err
	}
	d := Decision(strings.ToLower(strings.TrimSpace(mv.Decision)))
	switch d {
	case DecisionAccepted, DecisionRejected, DecisionPending:
	default:
		return nil, fmt.Errorf("unknown decision %q", mv.Decision)
	}
	return &Verdict{
		Decision:            d,
		Reason:              strings.TrimSpace(mv.Reason),
		Certifications:      clean(mv.Certifications, 0),
		ClarifyingQuestions: clean(mv.ClarifyingQuestions, MaxClarifyingQuestions),
	}, nil
}

func parseFirst(raw string) (*Verdict, error) {
	v, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if v.Decision != DecisionPending {
		v.ClarifyingQuestions = nil
		return v, nil
	}
	if len(v.ClarifyingQuestions) == 0 {
		return nil, errors.New("pending verdict without clarifying questions")
	}
	return v, nil
}

func parseFinal(raw string) (*Verdict, error) {
	v, err := decode(raw)
	if err != nil {
		return nil, err
	}
	v.ClarifyingQuestions = nil
	if v.Decision == DecisionPending {
		v.Decision = DecisionRejected
		reason := "Not enough information to confirm eligibility after clarification."
		if v.Reason != "" {
			reason += " " + v.Reason
		}
		v.Reason = reason
	}
	return v, nil
}

func clean(items []string, limit int) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s)
	}
	return out
}

func describe(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Product: %s\n", req.ProductName)
	fmt.Fprintf(&b, "- Company: %s\n", req.CompanyName)
	fmt.Fprintf(&b, "- Category: %s\n", req.Category)
	if len(req.Subcategories) > 0 {
		fmt.Fprintf(&b, "- Subcategories: %s\n", strings.Join(req.Subcategories, ", "))
	}
	if req.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", req.Location)
	}
	if len(req.Certifications) > 0 {
		fmt.Fprintf(&b, "- Claimed certifications: %s\n", strings.Join(req.Certifications, ", "))
	}
	if req.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", req.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAnswers(answers []Clarification) string {
	if len(answers) == 0 {
		return "(no answers provided)"
	}
	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, a.Question, a.Answer)
	}
	return strings.TrimRight(b.String(), "\n")
}
