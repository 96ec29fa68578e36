package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUESTIONNAIRE_MAX_DEFERRALS", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.InDelta(t, 0.95, cfg.Questionnaire.CompletionThreshold, 0.0001)
	assert.Equal(t, 3, cfg.Questionnaire.MaxDeferrals)
	assert.Equal(t, time.Duration(0), cfg.Questionnaire.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.Ai.AttemptTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUESTIONNAIRE_MAX_DEFERRALS", "0")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LLM_ATTEMPT_TIMEOUT", "45")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, 0, cfg.Questionnaire.MaxDeferrals)
	assert.Equal(t, 2*time.Hour, cfg.Questionnaire.SessionTTL)
	assert.Equal(t, 45*time.Second, cfg.Ai.AttemptTimeout)
	assert.True(t, cfg.App.OtelEnabled)
	assert.True(t, cfg.IsProduction())
}
