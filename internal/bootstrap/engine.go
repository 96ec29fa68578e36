package bootstrap

import (
	"context"
	"fmt"

	"disclosure-engine-be/internal/config"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure/document"
	"disclosure-engine-be/pkg/disclosure/eligibility"
	"disclosure-engine-be/pkg/disclosure/flow"
	"disclosure-engine-be/pkg/disclosure/question"
	"disclosure-engine-be/pkg/disclosure/report"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/llm"
	"disclosure-engine-be/pkg/llm/factory"
	"disclosure-engine-be/pkg/llm/resilient"
)

// Engine groups the model-backed questionnaire components around one provider.
type Engine struct {
	Controller *flow.Controller
	Analyzer   *document.Analyzer
	Assessor   *eligibility.Assessor
	Pipeline   *report.Pipeline
}

// NewLLMProvider builds the configured backend.
func NewLLMProvider(ctx context.Context, cfg *config.Config) (llm.LLMProvider, error) {
	fc := factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
	}
	switch cfg.Ai.LLMProvider {
	case "ollama":
		fc.BaseURL = cfg.Ai.OllamaBaseURL
	case "huggingface":
		fc.BaseURL = cfg.Ai.HuggingFaceBaseURL
		fc.APIKey = cfg.Keys.HuggingFace
	case "gemini":
		fc.APIKey = cfg.Keys.GoogleGemini
	}

	provider, err := factory.NewLLMProvider(ctx, fc)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	return provider, nil
}

func NewEngine(cfg *config.Config, provider llm.LLMProvider, store state.Store, hook flow.CompletionHook, log logger.ILogger) *Engine {
	caller := resilient.NewCaller(provider, resilient.Config{
		MaxAttempts:    cfg.Ai.MaxAttempts,
		AttemptTimeout: cfg.Ai.AttemptTimeout,
		InitialBackoff: cfg.Ai.InitialBackoff,
		MaxBackoff:     cfg.Ai.MaxBackoff,
	}, log)

	controller := flow.NewController(
		store,
		question.NewGenerator(caller, log),
		hook,
		flow.Config{
			CompletionThreshold: cfg.Questionnaire.CompletionThreshold,
			MaxDeferrals:        cfg.Questionnaire.MaxDeferrals,
		},
		log,
	)

	return &Engine{
		Controller: controller,
		Analyzer:   document.NewAnalyzer(caller, cfg.Questionnaire.MaxDocumentChars, log),
		Assessor:   eligibility.NewAssessor(caller, log),
		Pipeline:   report.NewPipeline(caller, log),
	}
}
