package limiter

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newMemStore() *memStore {
	return &memStore{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	n, ok := m.counts[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(n, 10), nil)
}

func (m *memStore) Incr(_ context.Context, key string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memStore) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	m.expires[key] = d
	return redis.NewBoolResult(true, nil)
}

func (m *memStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.counts, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRedis_LocksAfterMaxFailures(t *testing.T) {
	s := newMemStore()
	l := newRedis(s, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i)
		require.NoError(t, l.Failure(ctx, "A@x.com "))
	}

	ok, err := l.Allow(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, s.expires[Key("a@x.com")])

	require.NoError(t, l.Success(ctx, "a@x.com"))
	ok, err = l.Allow(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_FailsOpen(t *testing.T) {
	s := newMemStore()
	s.err = errors.New("connection refused")
	l := newRedis(s, 1, time.Minute)

	ok, err := l.Allow(context.Background(), "a@x.com")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestKey_HidesEmail(t *testing.T) {
	k := Key("Someone@Example.com")
	assert.True(t, strings.HasPrefix(k, keyPrefix))
	assert.NotContains(t, k, "someone")
	assert.Equal(t, k, Key(" someone@example.com"))
}

func TestNewRedis_Defaults(t *testing.T) {
	l := NewRedis(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0, 0)
	assert.Equal(t, 5, l.maxFails)
	assert.Equal(t, 15*time.Minute, l.window)
}
