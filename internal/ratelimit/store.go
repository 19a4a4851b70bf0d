package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts hits per key inside a fixed window.
type Store interface {
	// Increment records one hit and returns the count so far in the current
	// window together with the time left until the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisStore shares counters across server instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "rl:"}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	redisKey := s.prefix + key

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limit pipeline: %w", err)
	}

	left := ttl.Val()
	if left <= 0 {
		left = window
	}
	return incr.Val(), left, nil
}

// MemoryStore keeps counters in process. Used when Redis is not configured.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]*memoryState
	now    func() time.Time
}

type memoryState struct {
	count   int64
	resetAt time.Time
}

const memorySweepThreshold = 10000

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*memoryState),
		now:    time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.states) >= memorySweepThreshold {
		for k, st := range s.states {
			if !now.Before(st.resetAt) {
				delete(s.states, k)
			}
		}
	}

	state, ok := s.states[key]
	if !ok || !now.Before(state.resetAt) {
		state = &memoryState{resetAt: now.Add(window)}
		s.states[key] = state
	}
	state.count++
	return state.count, state.resetAt.Sub(now), nil
}
