package state

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"disclosure-engine-be/pkg/disclosure/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	sections := []taxonomy.Section{
		{Name: "Alpha", DataPoints: []string{"a1", "a2", "a3"}},
		{Name: "Beta", DataPoints: []string{"b1", "b2"}},
	}
	return NewSession("s-1", "u-1", Product{ID: "p-1", Name: "Thing"}, "Alpha", sections, time.Now())
}

func ask(section, dp string) Question {
	return Question{Key: Key{Section: section, DataPoint: dp}, Text: "Tell me about " + dp}
}

func TestIsDeferIntent(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"later", true},
		{"Later.", true},
		{"Can you ask me later?", true},
		{"I'll check with the supplier and get back to you", true},
		{"skip this for now", true},
		{"Not right now, sorry", true},
		{"We will provide it later", true},
		{"we need to confirm with our auditor", true},
		{"We don't have that yet", true},
		{"We'll check", true},
		{"I'll confirm it later", true},
		{"We will check with our supplier", true},
		{"Skip, we have no data", true},
		{"", false},
		{"Seeds come from a certified organic nursery in Pune", false},
		{"We never skip batch testing", false},
		{"Auditors will check the farm annually", false},
		{"Harvested later in the season than usual", false},
		{"We will check every batch for heavy metals before release.", false},
		{"We'll confirm each lot with a third-party lab test.", false},
		{"Skip-free supply chain: all cotton is GOTS certified.", false},
		{"Defer taxes are not applicable to this product", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDeferIntent(tt.answer))
		})
	}
}

func TestRecordAnswerCovers(t *testing.T) {
	s := newTestSession()

	outcome := s.RecordAnswer(ask("Alpha", "a1"), "Plenty of detail", 0, time.Now())

	assert.Equal(t, OutcomeCovered, outcome)
	assert.True(t, s.IsCovered(Key{"Alpha", "a1"}))
	assert.False(t, s.IsDeferred(Key{"Alpha", "a1"}))
	assert.InDelta(t, 1.0/3.0, s.SectionCompletion["Alpha"], 0.0001)
	require.Len(t, s.Transcript, 1)
	assert.Equal(t, "Plenty of detail", s.Transcript[0].Answer)
}

func TestRecordAnswerDefersOnce(t *testing.T) {
	s := newTestSession()
	q := ask("Alpha", "a2")

	assert.Equal(t, OutcomeDeferred, s.RecordAnswer(q, "ask me later", 0, time.Now()))
	assert.Equal(t, OutcomeDeferred, s.RecordAnswer(q, "later", 0, time.Now()))

	assert.Len(t, s.Deferred, 1)
	assert.Equal(t, "Tell me about a2", s.Deferred[0].Question)
	assert.False(t, s.IsCovered(q.Key))
	assert.Equal(t, 2, s.DeferCounts[q.Key.String()])
	// deferred items count toward section completion
	assert.InDelta(t, 1.0/3.0, s.SectionCompletion["Alpha"], 0.0001)
}

func TestRecordAnswerCoverRemovesDeferral(t *testing.T) {
	s := newTestSession()
	q := ask("Alpha", "a2")
	s.RecordAnswer(q, "later", 0, time.Now())
	require.True(t, s.IsDeferred(q.Key))

	s.RecordAnswer(q, "Sourced from Kerala", 0, time.Now())

	assert.True(t, s.IsCovered(q.Key))
	assert.False(t, s.IsDeferred(q.Key))
	assert.Empty(t, s.Deferred)
}

func TestRecordAnswerKeyNeverInBothSets(t *testing.T) {
	s := newTestSession()
	q := ask("Beta", "b1")
	answers := []string{"done", "later", "real answer", "skip", "another real answer"}

	for _, a := range answers {
		s.RecordAnswer(q, a, 0, time.Now())
		assert.False(t, s.IsCovered(q.Key) && s.IsDeferred(q.Key), "key in both sets after %q", a)
	}
}

func TestRecordAnswerDeferralCap(t *testing.T) {
	s := newTestSession()
	q := ask("Alpha", "a3")

	assert.Equal(t, OutcomeDeferred, s.RecordAnswer(q, "later", 2, time.Now()))
	s.PopDeferral()
	assert.Equal(t, OutcomeDeferred, s.RecordAnswer(q, "later", 2, time.Now()))
	s.PopDeferral()
	assert.Equal(t, OutcomeDeclined, s.RecordAnswer(q, "later", 2, time.Now()))

	assert.True(t, s.IsCovered(q.Key))
	assert.Empty(t, s.Deferred)
	assert.True(t, s.Transcript[len(s.Transcript)-1].Declined)
}

func TestRemainingDataPointsKeepsOrder(t *testing.T) {
	s := newTestSession()
	s.RecordAnswer(ask("Alpha", "a2"), "later", 0, time.Now())

	sec, _ := s.CurrentSection()
	assert.Equal(t, []string{"a1", "a3"}, s.RemainingDataPoints(sec))
}

func TestPopDeferralIsFIFO(t *testing.T) {
	s := newTestSession()
	s.RecordAnswer(ask("Alpha", "a1"), "later", 0, time.Now())
	s.RecordAnswer(ask("Beta", "b2"), "later", 0, time.Now())

	first, ok := s.PopDeferral()
	require.True(t, ok)
	assert.Equal(t, "a1", first.DataPoint)

	second, ok := s.PopDeferral()
	require.True(t, ok)
	assert.Equal(t, "b2", second.DataPoint)

	_, ok = s.PopDeferral()
	assert.False(t, ok)
}

func TestOverallProgressCountsCoveredOnly(t *testing.T) {
	s := newTestSession()
	s.RecordAnswer(ask("Alpha", "a1"), "yes", 0, time.Now())
	s.RecordAnswer(ask("Alpha", "a2"), "later", 0, time.Now())

	assert.InDelta(t, 20.0, s.OverallProgress(), 0.0001)
}

func TestCloneIsDeep(t *testing.T) {
	s := newTestSession()
	s.RecordAnswer(ask("Alpha", "a1"), "later", 0, time.Now())
	s.Pending = &Question{Key: Key{"Alpha", "a2"}, Text: "q", AnticipatedTopics: []string{"x"}}

	c := s.Clone()
	c.RecordAnswer(ask("Alpha", "a1"), "covered now", 0, time.Now())
	c.Pending.AnticipatedTopics[0] = "changed"
	c.Sections[0].DataPoints[0] = "changed"

	assert.True(t, s.IsDeferred(Key{"Alpha", "a1"}))
	assert.False(t, s.IsCovered(Key{"Alpha", "a1"}))
	assert.Len(t, s.Transcript, 1)
	assert.Equal(t, "x", s.Pending.AnticipatedTopics[0])
	assert.Equal(t, "a1", s.Sections[0].DataPoints[0])
}

func TestKeyedMutexSerialisesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	var inside int32
	var maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := km.Lock(context.Background(), "same")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutexDifferentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()
	unlockA, err := km.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	unlockB, err := km.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyedMutexHonoursContext(t *testing.T) {
	km := NewKeyedMutex()
	unlock, err := km.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = km.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // idempotent
	assert.Equal(t, 0, km.Len())
}
