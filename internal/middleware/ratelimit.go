package middleware

import (
	"net/http" // HTTP status codes
	"sync"     // Locking
	"time"     // Time durations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/time/rate"     // Token bucket limiter
)

// RateLimiter hands out one token bucket per client IP.
// Buckets idle long enough to have refilled are forgotten.
type RateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
	limiters  map[string]*clientBucket
}

type clientBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewRateLimiter allows r events per second with bursts of b per client
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	idle := time.Minute
	if r > 0 && r != rate.Inf {
		// A bucket untouched this long is full again, same as a new one
		if refill := time.Duration(float64(b) / float64(r) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &RateLimiter{
		limit:    r,
		burst:    b,
		idle:     idle,
		now:      time.Now,
		limiters: make(map[string]*clientBucket),
	}
}

// NewPerMinuteLimiter allows n requests per minute per client
func NewPerMinuteLimiter(n int) *RateLimiter {
	return NewRateLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

// Clients returns how many client buckets are currently tracked
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idle {
		rl.sweepLocked(now)
	}
	b, ok := rl.limiters[key]
	if !ok {
		b = &clientBucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = b
	}
	b.seen = now
	return b.lim
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, b := range rl.limiters {
		if now.Sub(b.seen) >= rl.idle {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.limiter(ip).Allow() {
			logrus.WithFields(logrus.Fields{"ip": ip, "path": c.FullPath()}).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}
