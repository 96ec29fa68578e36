package redisstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/disclosure/taxonomy"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the three commands the store uses.
type fakeRedis struct {
	redis.Cmdable
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func testSession() *state.Session {
	sections := taxonomy.SectionsFor(taxonomy.SectorDairy)
	s := state.NewSession("sess-1", "user-1", state.Product{ID: "p-1", Name: "Farm Butter"}, taxonomy.SectorDairy, sections, time.Now())
	q := state.Question{Key: state.Key{Section: sections[0].Name, DataPoint: sections[0].DataPoints[0]}, Text: "What is it?"}
	s.RecordAnswer(q, "later", 0, time.Now())
	return s
}

func TestSessionStoreRoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	store := NewSessionStore(rdb, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession()))
	assert.Equal(t, time.Hour, rdb.ttls[Key("sess-1")])

	got, ok, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Farm Butter", got.Product.Name)
	require.Len(t, got.Deferred, 1)
	assert.Equal(t, "What is it?", got.Deferred[0].Question)
	assert.NotNil(t, got.Covered)
}

func TestSessionStoreMissingKey(t *testing.T) {
	store := NewSessionStore(newFakeRedis(), 0)

	got, ok, err := store.Get(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSessionStoreCopiesAreIndependent(t *testing.T) {
	store := NewSessionStore(newFakeRedis(), 0)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSession()))

	first, _, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	first.Product.Name = "changed"

	second, _, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Farm Butter", second.Product.Name)
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore(newFakeRedis(), 0)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSession()))

	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, ok, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
