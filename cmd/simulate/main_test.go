package main

import (
	"testing"

	"disclosure-engine-be/pkg/disclosure/flow"

	"github.com/stretchr/testify/assert"
)

func TestQuestionHeader(t *testing.T) {
	res := &flow.StepResult{Section: "Sourcing", DataPoint: "Origin 100%", OverallProgress: 37.5}
	assert.Equal(t, "[4] Sourcing / Origin 100%  (38% overall)", questionHeader(4, res))

	res.IsRevisit = true
	res.OverallProgress = 100
	assert.Equal(t, "[9] Sourcing / Origin 100%  (100% overall) revisit", questionHeader(9, res))
}
