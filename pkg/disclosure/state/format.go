package state

import (
	"fmt"
	"strings"
)

// Describe renders the product metadata for a prompt.
func (p Product) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	if p.CompanyName != "" {
		fmt.Fprintf(&b, "- Company: %s\n", p.CompanyName)
	}
	if p.Category != "" {
		fmt.Fprintf(&b, "- Category: %s\n", p.Category)
	}
	if len(p.SectorHints) > 0 {
		fmt.Fprintf(&b, "- Subcategories: %s\n", strings.Join(p.SectorHints, ", "))
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", p.Location)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", p.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTranscript renders the last limit entries (all when limit <= 0).
func FormatTranscript(entries []TranscriptEntry, limit int) string {
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if len(entries) == 0 {
		return "(no answers yet)"
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s / %s]\nQ: %s\nA: %s", e.Section, e.DataPoint, e.Question, e.Answer)
		switch {
		case e.Declined:
			b.WriteString("\n(declined to answer)")
		case e.Deferred:
			b.WriteString("\n(deferred)")
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
