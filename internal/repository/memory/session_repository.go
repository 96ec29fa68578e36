package memory

import (
	"context"
	"time"

	"disclosure-engine-be/pkg/disclosure/state"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps questionnaire sessions in process memory.
type SessionRepository struct {
	cache *cache.Cache
}

var _ state.Store = (*SessionRepository)(nil)

// NewSessionRepository creates the store. ttl <= 0 keeps sessions until they are
// cleared explicitly.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 6
		if cleanup < time.Minute {
			cleanup = time.Minute
		}
	}
	return &SessionRepository{
		cache: cache.New(expiration, cleanup),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *state.Session) error {
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*state.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*state.Session).Clone(), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
