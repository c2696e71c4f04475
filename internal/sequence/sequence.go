// Package sequence hands out monotonically increasing load numbers per
// dashboard session so that a response can be checked for staleness before it
// is applied.
package sequence

import (
	"context"
	"errors"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// Sequencer issues load numbers per key. Latest returns the highest number
// issued so far, or 0.
type Sequencer interface {
	Next(ctx context.Context, key string) (int64, error)
	Latest(ctx context.Context, key string) (int64, error)
}

// Memory keeps counters in process.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

func (m *Memory) Next(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *Memory) Latest(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key], nil
}

// Forget drops the counter for key.
func (m *Memory) Forget(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counters, key)
}

type redisClient interface {
	Incr(ctx context.Context, key string) *redisv9.IntCmd
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redisv9.BoolCmd
}

// Redis keeps counters in Redis so every server instance sees the same order.
// Counters expire after ttl without a new load.
type Redis struct {
	client redisClient
	ttl    time.Duration
}

func NewRedis(client redisClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func redisKey(key string) string {
	return "dashboard:seq:" + key
}

func (r *Redis) Next(ctx context.Context, key string) (int64, error) {
	k := redisKey(key)
	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, k, r.ttl).Err(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (r *Redis) Latest(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, redisKey(key)).Int64()
	if errors.Is(err, redisv9.Nil) {
		return 0, nil
	}
	return n, err
}
