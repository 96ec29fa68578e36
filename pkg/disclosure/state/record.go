package state

import (
	"regexp"
	"strings"
	"time"
)

// Outcome of recording an answer against a data point
type Outcome string

const (
	OutcomeCovered  Outcome = "COVERED"
	OutcomeDeferred Outcome = "DEFERRED"
	// OutcomeDeclined: the item hit the deferral cap and is closed without a substantive answer.
	OutcomeDeclined Outcome = "DECLINED"
)

var deferPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bask (me )?(about (this|it|that) )?later\b`),
	regexp.MustCompile(`(?i)\b(come|get) back to (you|me|this|it|that)\b`),
	regexp.MustCompile(`(?i)\b(answer|provide|share|send|supply|add|fill( in)?) (this|it|that|these|them)? ?later\b`),
	// a promise to check only counts when nothing substantive follows it
	regexp.MustCompile(`(?i)\b(i('| wi)ll|we('| wi)ll) (check|confirm|find out|look (it|this) up)( (on|into))?( (it|this|that))?( later\b| first\b| and (get|come) back\b| with (the|our|my) [a-z-]+( and .*)?$|$)`),
	regexp.MustCompile(`(?i)^(please |can we |let'?s )?(skip|defer|postpone)( (this|it|that))?( (one|question))?( for now)?(( please)?$|,)`),
	regexp.MustCompile(`(?i)\bnot (right )?now\b`),
	regexp.MustCompile(`(?i)\blater,? please\b`),
	regexp.MustCompile(`(?i)^(i|we) (need|have) to (check|confirm|ask)\b`),
	regexp.MustCompile(`(?i)\bdon'?t (have|know) (this|that|it)? ?(yet|right now|at the moment)\b`),
}

var shortDeferReplies = map[string]bool{
	"later": true, "skip": true, "pass": true, "next": true, "tbd": true, "n/a later": true,
}

// IsDeferIntent reports whether an answer asks to postpone the question.
func IsDeferIntent(answer string) bool {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	normalized = strings.Trim(normalized, ".!? ")
	if normalized == "" {
		return false
	}
	if shortDeferReplies[normalized] {
		return true
	}
	for _, p := range deferPatterns {
		if p.MatchString(normalized) {
			return true
		}
	}
	return false
}

// RecordAnswer applies the recording rule to the pending question. A defer intent
// moves the key into the deferral queue (appended only if absent) and out of the
// covered set; any other answer covers the key and drops any deferral for it.
// maxDeferrals <= 0 means an item may be deferred indefinitely.
func (s *Session) RecordAnswer(q Question, answer string, maxDeferrals int, now time.Time) Outcome {
	k := q.Key
	outcome := OutcomeCovered

	if IsDeferIntent(answer) {
		if maxDeferrals > 0 && s.DeferCounts[k.String()] >= maxDeferrals {
			outcome = OutcomeDeclined
		} else {
			outcome = OutcomeDeferred
		}
	}

	switch outcome {
	case OutcomeDeferred:
		delete(s.Covered, k.String())
		if s.deferralIndex(k) < 0 {
			s.Deferred = append(s.Deferred, Deferral{Key: k, Question: q.Text})
		}
		s.DeferCounts[k.String()]++
	default:
		s.Covered[k.String()] = true
		if i := s.deferralIndex(k); i >= 0 {
			s.Deferred = append(s.Deferred[:i], s.Deferred[i+1:]...)
		}
	}

	s.Transcript = append(s.Transcript, TranscriptEntry{
		Key:        k,
		Question:   q.Text,
		Answer:     answer,
		Revisit:    q.Revisit,
		Deferred:   outcome == OutcomeDeferred,
		Declined:   outcome == OutcomeDeclined,
		AskedAt:    q.AskedAt,
		AnsweredAt: now,
	})

	s.recomputeCompletion(k.Section)
	s.UpdatedAt = now
	return outcome
}

func (s *Session) recomputeCompletion(sectionName string) {
	sec, ok := s.section(sectionName)
	if !ok || len(sec.DataPoints) == 0 {
		return
	}
	done := 0
	for _, dp := range sec.DataPoints {
		k := Key{Section: sec.Name, DataPoint: dp}
		if s.IsCovered(k) || s.IsDeferred(k) {
			done++
		}
	}
	s.SectionCompletion[sec.Name] = float64(done) / float64(len(sec.DataPoints))
}
