package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RateLimiterConfig sizes the per-user token buckets.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	CleanupInterval   time.Duration
	EntryTTL          time.Duration
}

// DefaultRateLimiterConfig returns sensible defaults
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	}
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter keeps one token bucket per authenticated user so a busy
// till cannot starve the others. Buckets idle past EntryTTL are swept out.
type UserRateLimiter struct {
	mu          sync.Mutex
	buckets     map[uuid.UUID]*rateLimiterEntry
	limit       rate.Limit
	burst       int
	cleanupTick time.Duration
	entryTTL    time.Duration
}

// NewUserRateLimiter creates a new per-user rate limiter
func NewUserRateLimiter(cfg RateLimiterConfig) *UserRateLimiter {
	rl := &UserRateLimiter{
		buckets:     make(map[uuid.UUID]*rateLimiterEntry),
		limit:       rate.Limit(cfg.RequestsPerSecond),
		burst:       cfg.BurstSize,
		cleanupTick: cfg.CleanupInterval,
		entryTTL:    cfg.EntryTTL,
	}

	go rl.sweepLoop()

	return rl
}

func (rl *UserRateLimiter) bucketFor(userID uuid.UUID) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.buckets[userID]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[userID] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

func (rl *UserRateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.sweep()
	}
}

func (rl *UserRateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.entryTTL)
	for userID, entry := range rl.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.buckets, userID)
		}
	}
}

// Middleware enforces the per-user budget. Unauthenticated requests pass
// through; the public routes carry their own protections.
func (rl *UserRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("user_id")
		if !ok {
			c.Next()
			return
		}
		userID, ok := v.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			c.Next()
			return
		}

		bucket := rl.bucketFor(userID)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		if !bucket.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Rate limit exceeded. Please try again later.",
				"error":   "too_many_requests",
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(bucket.Tokens())))

		c.Next()
	}
}
