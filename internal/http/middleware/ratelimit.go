// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a process-local token-bucket rate limiter with one
// bucket per caller (or client IP when the caller is unknown), backed by
// golang.org/x/time/rate.
//
//   - Idempotent replays skip the limiter (see IdempotencyValidator).
//   - Exempt paths (health and metrics probes) are never limited.
//   - Rejections answer 429 with a Retry-After computed from the bucket.
//   - Idle buckets are evicted opportunistically to bound memory.
//
// The limiter is per process. Horizontally scaled deployments get one
// budget per replica.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterIdleTTL = 10 * time.Minute
	limiterGCEvery        = 5000
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys buckets by the caller resolved by Auth ("user:<id>"),
// falling back to the client IP ("ip:<addr>").
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

// RateLimitOptions configures NewRateLimiter.
type RateLimitOptions struct {
	RPS     float64       // tokens per second; 0 rejects everything past the burst
	Burst   int           // bucket size; values <= 0 become 1
	Key     keyFunc       // nil means KeyByUserOrIP
	Exempt  []string      // exact URL paths that are never limited
	IdleTTL time.Duration // bucket eviction age; 0 means 10m
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	keyFn    keyFunc
	exempt   map[string]struct{}
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  uint64
}

// NewRateLimiter builds a limiter; install it with Handler().
func NewRateLimiter(opts RateLimitOptions) *RateLimiter {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Key == nil {
		opts.Key = KeyByUserOrIP()
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultLimiterIdleTTL
	}
	exempt := make(map[string]struct{}, len(opts.Exempt))
	for _, p := range opts.Exempt {
		exempt[p] = struct{}{}
	}
	return &RateLimiter{
		rps:      rate.Limit(opts.RPS),
		burst:    opts.Burst,
		keyFn:    opts.Key,
		exempt:   exempt,
		ttl:      opts.IdleTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// limiterFor returns the bucket of key, creating it when absent. Every
// limiterGCEvery lookups idle buckets are evicted first, so a stale bucket
// is dropped even when it is the one being asked for.
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= limiterGCEvery {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked the request as a
// replay that must not consume tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the Gin middleware. A rejected request gets:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: <seconds until a token is available, at least 1>
//	{ "request_id": "...", "code": "too_many_requests", "message": "rate limit exceeded" }
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := rl.exempt[c.Request.URL.Path]; ok || IsRateBypass(c) {
			c.Next()
			return
		}

		now := rl.now()
		lim := rl.limiterFor(rl.keyFn(c), now)
		res := lim.ReserveN(now, 1)
		if res.OK() {
			delay := res.DelayFrom(now)
			if delay == 0 {
				c.Next()
				return
			}
			res.CancelAt(now)
			rl.reject(c, delay)
			return
		}
		// RPS 0 and an empty bucket: no token will ever arrive.
		rl.reject(c, time.Minute)
	}
}

func (rl *RateLimiter) reject(c *gin.Context, wait time.Duration) {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	httpRateLimited.WithLabelValues(routeLabel(c)).Inc()
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       "too_many_requests",
		"message":    "rate limit exceeded",
	})
}
