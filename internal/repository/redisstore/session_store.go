// Package redisstore keeps questionnaire sessions in Redis so several API
// instances can serve the same session.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"disclosure-engine-be/pkg/disclosure/state"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "disclosure:session:"

type SessionStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var _ state.Store = (*SessionStore)(nil)

// NewSessionStore wraps a redis client. ttl <= 0 stores sessions without expiry.
func NewSessionStore(rdb redis.Cmdable, ttl time.Duration) *SessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func Key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *SessionStore) Save(ctx context.Context, session *state.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.rdb.Set(ctx, Key(session.ID), data, s.ttl).Err()
}

// Get decodes a fresh value on every call, so callers always own the result.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*state.Session, bool, error) {
	data, err := s.rdb.Get(ctx, Key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var session state.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	normalize(&session)
	return &session, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, Key(sessionID)).Err()
}

// normalize restores empty maps that JSON leaves nil.
func normalize(s *state.Session) {
	if s.Covered == nil {
		s.Covered = make(map[string]bool)
	}
	if s.DeferCounts == nil {
		s.DeferCounts = make(map[string]int)
	}
	if s.SectionCompletion == nil {
		s.SectionCompletion = make(map[string]float64)
	}
}
