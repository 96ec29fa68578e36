// Package flow drives the deep-dive questionnaire: one section at a time, one
// data point per question, deferred items revisited at the end.
package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/disclosure/question"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/disclosure/taxonomy"

	"github.com/google/uuid"
)

var sessionNamespace = uuid.MustParse("6f1c2a0e-4b7d-5c3e-9a8f-2d1e0b7c6a54")

// SessionID derives the session key for a (product, requester) pair.
func SessionID(productID, requesterID string) string {
	return uuid.NewSHA1(sessionNamespace, []byte(productID+"|"+requesterID)).String()
}

type QuestionGenerator interface {
	Generate(ctx context.Context, req question.Request) (question.Result, error)
}

// Completion is handed to the hook once a session reaches the complete phase.
type Completion struct {
	SessionID   string
	RequesterID string
	Product     state.Product
	Sector      string
	Transcript  []state.TranscriptEntry
	CompletedAt time.Time
}

// CompletionHook starts report synthesis. It runs on its own goroutine with a
// context detached from the step request.
type CompletionHook interface {
	OnComplete(ctx context.Context, c Completion)
}

type HookFunc func(ctx context.Context, c Completion)

func (f HookFunc) OnComplete(ctx context.Context, c Completion) { f(ctx, c) }

type Config struct {
	// CompletionThreshold is the 0..1 section completion that advances the cursor.
	CompletionThreshold float64
	// MaxDeferrals caps how often one item may be deferred; 0 is unbounded.
	MaxDeferrals int
}

func DefaultConfig() Config {
	return Config{CompletionThreshold: 0.95, MaxDeferrals: 3}
}

type StepRequest struct {
	SessionID   string
	First       bool
	Product     *state.Product // required on the first call
	RequesterID string

	// Key of the question being answered. Optional, but when set it must match
	// the pending question.
	Section   string
	DataPoint string
	Answer    string
}

type StepResult struct {
	SessionID         string        `json:"session_id"`
	Question          string        `json:"next_question,omitempty"`
	HelperText        string        `json:"helper_text,omitempty"`
	AnticipatedTopics []string      `json:"anticipated_topics,omitempty"`
	Section           string        `json:"current_section,omitempty"`
	DataPoint         string        `json:"current_data_point,omitempty"`
	OverallProgress   float64       `json:"overall_progress"`
	SectionProgress   float64       `json:"section_progress"`
	IsComplete        bool          `json:"is_complete"`
	IsRevisit         bool          `json:"is_revisit"`
	Fallback          bool          `json:"fallback"`
	Outcome           state.Outcome `json:"outcome,omitempty"`
}

type Controller struct {
	store     state.Store
	locks     *state.KeyedMutex
	questions QuestionGenerator
	hook      CompletionHook
	cfg       Config
	logger    logger.ILogger
	now       func() time.Time
}

func NewController(store state.Store, questions QuestionGenerator, hook CompletionHook, cfg Config, log logger.ILogger) *Controller {
	if cfg.CompletionThreshold <= 0 || cfg.CompletionThreshold > 1 {
		cfg.CompletionThreshold = DefaultConfig().CompletionThreshold
	}
	if cfg.MaxDeferrals < 0 {
		cfg.MaxDeferrals = 0
	}
	return &Controller{
		store:     store,
		locks:     state.NewKeyedMutex(),
		questions: questions,
		hook:      hook,
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
	}
}

// Start opens (or re-enters) the session for a product and returns its current question.
func (c *Controller) Start(ctx context.Context, product state.Product, requesterID string) (*StepResult, error) {
	return c.Step(ctx, StepRequest{First: true, Product: &product, RequesterID: requesterID})
}

// Step records the answer to the pending question, if any, and returns the next one.
func (c *Controller) Step(ctx context.Context, req StepRequest) (*StepResult, error) {
	// 1. Resolve session id
	id := req.SessionID
	if id == "" {
		if !req.First || req.Product == nil {
			return nil, disclosure.ErrSessionNotFound
		}
		id = SessionID(req.Product.ID, req.RequesterID)
	}

	// 2. Serialise steps of this session
	unlock, err := c.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// 3. Load or create
	sess, err := c.load(ctx, id, req)
	if err != nil {
		return nil, err
	}

	// 4. Record the answer, committed before any generation
	var outcome state.Outcome
	answer := strings.TrimSpace(req.Answer)
	if sess.Phase == state.PhaseComplete {
		if answer != "" {
			return nil, disclosure.ErrSessionComplete
		}
		return c.completeResult(sess), nil
	}
	if answer != "" {
		pending := sess.Pending
		if pending == nil {
			return nil, fmt.Errorf("%w: no question is pending", disclosure.ErrStaleAnswer)
		}
		if (req.Section != "" || req.DataPoint != "") &&
			(req.Section != pending.Section || req.DataPoint != pending.DataPoint) {
			return nil, fmt.Errorf("%w: pending question is %s", disclosure.ErrStaleAnswer, pending.Key)
		}

		outcome = sess.RecordAnswer(*pending, answer, c.cfg.MaxDeferrals, c.now())
		sess.Pending = nil
		if err := c.store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}

		c.logger.Info("FLOW", "Answer recorded", map[string]interface{}{
			"session_id": sess.ID,
			"key":        pending.Key.String(),
			"outcome":    string(outcome),
			"revisit":    pending.Revisit,
		})
	} else if sess.Pending != nil {
		// refresh: hand back the same question
		return c.questionResult(sess, ""), nil
	}

	// 5. Pick the next question
	completed, err := c.advance(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if completed {
		c.fireCompletion(ctx, sess)
		res := c.completeResult(sess)
		res.Outcome = outcome
		return res, nil
	}
	return c.questionResult(sess, outcome), nil
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot(ctx context.Context, sessionID, requesterID string) (*state.Session, error) {
	sess, ok, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || !owns(sess, requesterID) {
		return nil, disclosure.ErrSessionNotFound
	}
	return sess, nil
}

// Clear deletes the session.
func (c *Controller) Clear(ctx context.Context, sessionID, requesterID string) error {
	unlock, err := c.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := c.Snapshot(ctx, sessionID, requesterID); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	c.logger.Info("FLOW", "Session cleared", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (c *Controller) load(ctx context.Context, id string, req StepRequest) (*state.Session, error) {
	sess, ok, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if ok {
		if !owns(sess, req.RequesterID) {
			return nil, disclosure.ErrSessionNotFound
		}
		return sess, nil
	}
	if !req.First || req.Product == nil {
		return nil, disclosure.ErrSessionNotFound
	}

	p := *req.Product
	sector := taxonomy.DetectSector(p.Name, p.Description, strings.Join(append([]string{p.Category}, p.SectorHints...), " "))
	sess = state.NewSession(id, req.RequesterID, p, sector, taxonomy.SectionsFor(sector), c.now())

	c.logger.Info("FLOW", "Session created", map[string]interface{}{
		"session_id": id,
		"product_id": p.ID,
		"sector":     sector,
	})
	return sess, nil
}

// advance moves the state machine until a question is pending or the session completes.
func (c *Controller) advance(ctx context.Context, sess *state.Session) (bool, error) {
	for {
		switch sess.Phase {
		case state.PhaseActiveSection:
			sec, ok := sess.CurrentSection()
			if !ok {
				sess.Phase = state.PhaseDeferralResolution
				continue
			}
			if sess.SectionCompletion[sec.Name] >= c.cfg.CompletionThreshold {
				sess.Cursor++
				continue
			}
			remaining := sess.RemainingDataPoints(sec)
			if len(remaining) == 0 {
				// exhausted below threshold
				sess.Cursor++
				continue
			}

			res, err := c.questions.Generate(ctx, question.Request{
				Product:    sess.Product,
				Section:    sec.Name,
				Remaining:  remaining,
				Transcript: sess.Transcript,
			})
			if err != nil {
				return false, fmt.Errorf("generate question: %w", err)
			}
			sess.Pending = &state.Question{
				Key:               state.Key{Section: sec.Name, DataPoint: remaining[0]},
				Text:              res.Question,
				HelperText:        res.HelperText,
				AnticipatedTopics: res.AnticipatedTopics,
				Fallback:          res.Fallback,
				AskedAt:           c.now(),
			}
			return false, nil

		case state.PhaseDeferralResolution:
			d, ok := sess.PopDeferral()
			if !ok {
				now := c.now()
				sess.Phase = state.PhaseComplete
				sess.CompletedAt = &now
				return true, nil
			}
			sess.Pending = &state.Question{
				Key:        d.Key,
				Text:       d.Question,
				HelperText: "You asked to come back to this one.",
				Revisit:    true,
				AskedAt:    c.now(),
			}
			return false, nil

		default:
			return true, nil
		}
	}
}

func (c *Controller) fireCompletion(ctx context.Context, sess *state.Session) {
	c.logger.Info("FLOW", "Session complete", map[string]interface{}{
		"session_id": sess.ID,
		"answers":    len(sess.Transcript),
	})
	if c.hook == nil {
		return
	}
	done := Completion{
		SessionID:   sess.ID,
		RequesterID: sess.RequesterID,
		Product:     sess.Product,
		Sector:      sess.Sector,
		Transcript:  append([]state.TranscriptEntry(nil), sess.Transcript...),
		CompletedAt: *sess.CompletedAt,
	}
	go c.hook.OnComplete(context.WithoutCancel(ctx), done)
}

func (c *Controller) questionResult(sess *state.Session, outcome state.Outcome) *StepResult {
	q := sess.Pending
	return &StepResult{
		SessionID:         sess.ID,
		Question:          q.Text,
		HelperText:        q.HelperText,
		AnticipatedTopics: q.AnticipatedTopics,
		Section:           q.Section,
		DataPoint:         q.DataPoint,
		OverallProgress:   sess.OverallProgress(),
		SectionProgress:   sess.SectionProgress(q.Section),
		IsRevisit:         q.Revisit,
		Fallback:          q.Fallback,
		Outcome:           outcome,
	}
}

func (c *Controller) completeResult(sess *state.Session) *StepResult {
	return &StepResult{
		SessionID:       sess.ID,
		OverallProgress: sess.OverallProgress(),
		SectionProgress: 100,
		IsComplete:      true,
	}
}

func owns(sess *state.Session, requesterID string) bool {
	return requesterID == "" || sess.RequesterID == requesterID
}
