// Package cache provides the key/value collaborator used for short-lived
// read caching of hospital-scoped data. Values are opaque strings; callers
// encode structured values with GetJSON/SetJSON.
//
// Two backends are provided:
//   - RedisKV: go-redis backed, shared across processes.
//   - MemoryKV: process-local map with per-key expiry, used when no Redis
//     address is configured and in tests.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss indicates that the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache miss")

// KV is the minimal cache contract. A ttl <= 0 stores the value without expiry.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisKV is a KV backed by a go-redis client.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// Get returns the value for key or ErrCacheMiss.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

// Set stores value under key for ttl.
func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Del removes keys; missing keys are not an error.
func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Ping checks connectivity to Redis.
func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// memorySweepEvery is how many Set calls pass between sweeps of expired keys.
const memorySweepEvery = 1000

// MemoryKV is an in-process KV. Expired keys are dropped when read and by a
// periodic sweep on Set. Safe for concurrent use.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]memoryItem
	now  func() time.Time
	sets int
}

type memoryItem struct {
	value   string
	expires time.Time // zero = no ttl
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]memoryItem), now: time.Now}
}

// Get returns the value for key or ErrCacheMiss.
func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.data, key)
		return "", ErrCacheMiss
	}
	return item.value, nil
}

// Set stores value under key for ttl.
func (m *MemoryKV) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sets++
	if m.sets >= memorySweepEvery {
		m.sets = 0
		for k, item := range m.data {
			if !item.expires.IsZero() && !now.Before(item.expires) {
				delete(m.data, k)
			}
		}
	}

	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	m.data[key] = memoryItem{value: value, expires: exp}
	return nil
}

// Del removes keys.
func (m *MemoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Len returns the number of stored (possibly expired) entries.
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
