package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

const keyPrefix = "bloodbank:"

// HospitalKey is the cache key of the hospital owned by callerID.
func HospitalKey(callerID string) string { return keyPrefix + "hospital:user:" + callerID }

// StatsKey is the cache key of the request statistics of hospitalID.
func StatsKey(hospitalID string) string { return keyPrefix + "hospital:stats:" + hospitalID }

// GetJSON loads key and decodes it into dst. It returns ErrCacheMiss when the
// key is absent.
func GetJSON(ctx context.Context, kv KV, key string, dst any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dst)
}

// SetJSON encodes v and stores it under key for ttl.
func SetJSON(ctx context.Context, kv KV, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, string(b), ttl)
}

// Remember is a read-through helper. On a hit it returns the cached value and
// hit=true. On a miss it calls load; when load reports found, the value is
// stored for ttl. Backend failures are logged and degrade to calling load, so
// a broken cache never breaks reads. Values with found=false are not cached.
func Remember[T any](ctx context.Context, kv KV, key string, ttl time.Duration, load func(context.Context) (T, bool, error)) (val T, hit bool, err error) {
	if kv != nil {
		err := GetJSON(ctx, kv, key, &val)
		switch {
		case err == nil:
			return val, true, nil
		case errors.Is(err, ErrCacheMiss):
		default:
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	var zero T
	v, found, err := load(ctx)
	if err != nil {
		return zero, false, err
	}
	if found && kv != nil {
		if err := SetJSON(ctx, kv, key, v, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, false, nil
}
