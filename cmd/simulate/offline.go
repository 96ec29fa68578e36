package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"disclosure-engine-be/internal/constant"
	"disclosure-engine-be/pkg/llm/llmtest"
)

const dataPointMarker = "Data point to ask about now:"

// offlineProvider answers every engine prompt with a plausible canned JSON
// document so the questionnaire can run without a model backend.
func offlineProvider() *llmtest.Provider {
	return &llmtest.Provider{Respond: func(_ context.Context, call llmtest.Call) (string, error) {
		switch call.Options.System {
		case constant.QuestionGeneratorSystemPrompt:
			return offlineQuestion(call.Prompt), nil
		case constant.EligibilitySystemPrompt:
			return marshal(map[string]interface{}{
				"decision":       "accepted",
				"reason":         "Offline screening accepts every product.",
				"certifications": []string{},
			}), nil
		case constant.ReportSystemPrompt:
			return offlineReport(call.Prompt), nil
		}
		return marshal(map[string]interface{}{"relevant": false}), nil
	}}
}

func offlineQuestion(prompt string) string {
	dataPoint := "this topic"
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, dataPointMarker) {
			dataPoint = strings.TrimSpace(strings.TrimPrefix(line, dataPointMarker))
			break
		}
	}
	return marshal(map[string]interface{}{
		"question":           fmt.Sprintf("Could you tell us about %s for this product?", strings.ToLower(dataPoint)),
		"helper_text":        "A short factual answer is enough.",
		"anticipated_topics": []string{dataPoint},
	})
}

func offlineReport(prompt string) string {
	entries := strings.Count(prompt, "\nA: ")
	if strings.HasPrefix(prompt, "Write a formal findings") {
		return marshal(map[string]interface{}{
			"title":   "Findings Report",
			"content": fmt.Sprintf("Offline findings drafted from %d answered questions.", entries),
		})
	}
	return marshal(map[string]interface{}{
		"title":   "Transparency Summary",
		"content": fmt.Sprintf("Offline summary drafted from %d answered questions.", entries),
	})
}

func marshal(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
