package state

import (
	"time"

	"disclosure-engine-be/pkg/disclosure/taxonomy"
)

// Phase of the deep-dive state machine
type Phase string

const (
	PhaseActiveSection      Phase = "ACTIVE_SECTION"
	PhaseDeferralResolution Phase = "DEFERRAL_RESOLUTION"
	PhaseComplete           Phase = "COMPLETE"
)

// Key identifies a data point within a section.
type Key struct {
	Section   string `json:"section"`
	DataPoint string `json:"data_point"`
}

func (k Key) String() string {
	return k.Section + "::" + k.DataPoint
}

// Deferral is an ask-later entry waiting in the FIFO queue.
type Deferral struct {
	Key
	Question string `json:"question"`
}

// Question is the question currently awaiting an answer.
type Question struct {
	Key
	Text              string    `json:"text"`
	HelperText        string    `json:"helper_text"`
	AnticipatedTopics []string  `json:"anticipated_topics,omitempty"`
	Revisit           bool      `json:"revisit"`
	Fallback          bool      `json:"fallback"`
	AskedAt           time.Time `json:"asked_at"`
}

// TranscriptEntry is one answered question. The transcript is append-only.
type TranscriptEntry struct {
	Key
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Revisit    bool      `json:"revisit"`
	Deferred   bool      `json:"deferred"`
	Declined   bool      `json:"declined"`
	AskedAt    time.Time `json:"asked_at"`
	AnsweredAt time.Time `json:"answered_at"`
}

// Product is the read-only product metadata the questionnaire is about.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SectorHints []string `json:"sector_hints,omitempty"`
	Location    string   `json:"location"`
	CompanyName string   `json:"company_name"`
}

// Session is the mutable per-conversation state.
type Session struct {
	ID          string             `json:"id"`
	RequesterID string             `json:"requester_id"`
	Product     Product            `json:"product"`
	Sector      string             `json:"sector"`
	Sections    []taxonomy.Section `json:"sections"`
	Cursor      int                `json:"cursor"`
	Phase       Phase              `json:"phase"`

	Covered     map[string]bool `json:"covered"`
	Deferred    []Deferral      `json:"deferred"`
	DeferCounts map[string]int  `json:"defer_counts"`

	// Completion ratio (0..1) per section name, refreshed on every recorded answer.
	SectionCompletion map[string]float64 `json:"section_completion"`

	Pending    *Question         `json:"pending,omitempty"`
	Transcript []TranscriptEntry `json:"transcript"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewSession creates the initial state for a product positioned on the first section.
func NewSession(id, requesterID string, product Product, sector string, sections []taxonomy.Section, now time.Time) *Session {
	s := &Session{
		ID:                id,
		RequesterID:       requesterID,
		Product:           product,
		Sector:            sector,
		Sections:          sections,
		Phase:             PhaseActiveSection,
		Covered:           make(map[string]bool),
		DeferCounts:       make(map[string]int),
		SectionCompletion: make(map[string]float64),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, sec := range sections {
		s.SectionCompletion[sec.Name] = 0
	}
	return s
}

// CurrentSection returns the section under the cursor, or false once past the last one.
func (s *Session) CurrentSection() (taxonomy.Section, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Sections) {
		return taxonomy.Section{}, false
	}
	return s.Sections[s.Cursor], true
}

func (s *Session) IsCovered(k Key) bool {
	return s.Covered[k.String()]
}

func (s *Session) IsDeferred(k Key) bool {
	return s.deferralIndex(k) >= 0
}

// RemainingDataPoints lists the section's data points that are neither covered
// nor deferred, in declared order.
func (s *Session) RemainingDataPoints(sec taxonomy.Section) []string {
	var remaining []string
	for _, dp := range sec.DataPoints {
		k := Key{Section: sec.Name, DataPoint: dp}
		if s.IsCovered(k) || s.IsDeferred(k) {
			continue
		}
		remaining = append(remaining, dp)
	}
	return remaining
}

// PopDeferral removes and returns the head of the deferral queue.
func (s *Session) PopDeferral() (Deferral, bool) {
	if len(s.Deferred) == 0 {
		return Deferral{}, false
	}
	head := s.Deferred[0]
	s.Deferred = s.Deferred[1:]
	return head, true
}

// SectionProgress is the cached completion of a section as a percentage.
func (s *Session) SectionProgress(section string) float64 {
	return s.SectionCompletion[section] * 100
}

// OverallProgress is the share of all data points that are covered, as a percentage.
// Deferred items do not count until they are answered.
func (s *Session) OverallProgress() float64 {
	total := taxonomy.TotalDataPoints(s.Sections)
	if total == 0 {
		return 100
	}
	covered := 0
	for _, sec := range s.Sections {
		for _, dp := range sec.DataPoints {
			if s.IsCovered(Key{Section: sec.Name, DataPoint: dp}) {
				covered++
			}
		}
	}
	return float64(covered) / float64(total) * 100
}

// Clone returns a deep copy so callers can mutate state without touching a stored value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s

	c.Product.SectorHints = append([]string(nil), s.Product.SectorHints...)

	c.Sections = make([]taxonomy.Section, len(s.Sections))
	for i, sec := range s.Sections {
		c.Sections[i] = taxonomy.Section{Name: sec.Name, DataPoints: append([]string(nil), sec.DataPoints...)}
	}

	c.Covered = make(map[string]bool, len(s.Covered))
	for k, v := range s.Covered {
		c.Covered[k] = v
	}
	c.DeferCounts = make(map[string]int, len(s.DeferCounts))
	for k, v := range s.DeferCounts {
		c.DeferCounts[k] = v
	}
	c.SectionCompletion = make(map[string]float64, len(s.SectionCompletion))
	for k, v := range s.SectionCompletion {
		c.SectionCompletion[k] = v
	}

	c.Deferred = append([]Deferral(nil), s.Deferred...)
	c.Transcript = append([]TranscriptEntry(nil), s.Transcript...)

	if s.Pending != nil {
		p := *s.Pending
		p.AnticipatedTopics = append([]string(nil), s.Pending.AnticipatedTopics...)
		c.Pending = &p
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func (s *Session) deferralIndex(k Key) int {
	for i, d := range s.Deferred {
		if d.Key == k {
			return i
		}
	}
	return -1
}

func (s *Session) section(name string) (taxonomy.Section, bool) {
	for _, sec := range s.Sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return taxonomy.Section{}, false
}
